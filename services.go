package wowapi

import (
	"context"
	"net/url"
	"strconv"
)

// resource describes one catalogue endpoint: where it lives, how many
// optional data fields a call may select, which sort keys it accepts, and
// the projection applied to its payload. Services are plain values consumed
// by thin Client methods, not types of their own.
type resource struct {
	section       string
	path          string
	maxFields     int
	sortWhitelist []string
	mapping       Mapping
	authenticated bool
}

// Nested projections re-applied by the resource constructors. The mapper
// itself never descends; these run as an explicit second pass per nested
// field.
var (
	rewardItemMapping = Mapping{
		Fields: []string{"id", "name", "icon", "quality", "itemLevel", "tooltipParams", "stats", "armor"},
		Policy: OmitField,
	}

	criteriaMapping = Mapping{
		Fields: []string{"id", "description", "orderIndex", "max"},
		Policy: FillWithNull,
	}

	realmMapping = Mapping{
		Fields: []string{"type", "population", "queue", "status", "name", "slug", "battlegroup", "locale", "timezone", "connected_realms"},
		Policy: FillWithNull,
	}

	mountMapping = Mapping{
		Fields: []string{"name", "spellId", "creatureId", "itemId", "qualityId", "icon", "isGround", "isFlying", "isAquatic", "isJumping"},
		Policy: FillWithNull,
	}
)

var (
	achievementResource = resource{
		section: "wow",
		path:    "achievement/:id",
		mapping: Mapping{
			Fields:  []string{"id", "title", "points", "description", "reward", "rewardItems", "icon", "criteria", "accountWide", "factionId"},
			Renames: map[string]string{"rewardItems": "items"},
			Policy:  FillWithNull,
		},
	}

	auctionResource = resource{
		section: "wow",
		path:    "auction/data/:realm",
		mapping: Mapping{
			Fields: []string{"files"},
			Policy: OmitField,
		},
	}

	bossResource = resource{
		section: "wow",
		path:    "boss/:id",
		mapping: Mapping{
			Fields: []string{"id", "name", "urlSlug", "description", "zoneId", "availableInNormalMode", "availableInHeroicMode", "health", "heroicHealth", "level", "heroicLevel", "journalId", "npcs"},
			Policy: FillWithNull,
		},
	}

	bossListResource = resource{
		section: "wow",
		path:    "boss/",
		mapping: Mapping{Fields: []string{"bosses"}, Policy: OmitField},
	}

	characterResource = resource{
		section:   "wow",
		path:      "character/:realm/:character",
		maxFields: 18,
		mapping: Mapping{
			// Optional payload blocks appear only when selected, so the
			// shape mirrors the origin's answer.
			Fields: []string{
				"lastModified", "name", "realm", "battlegroup", "class", "race", "gender",
				"level", "achievementPoints", "thumbnail", "calcClass", "faction",
				"totalHonorableKills",
				"achievements", "appearance", "feed", "guild", "hunterPets", "items",
				"mounts", "pets", "petSlots", "professions", "progression", "pvp",
				"quests", "reputation", "statistics", "stats", "talents", "titles", "audit",
			},
			Policy: OmitField,
		},
	}

	guildResource = resource{
		section:   "wow",
		path:      "guild/:realm/:guild",
		maxFields: 4,
		mapping: Mapping{
			Fields: []string{
				"lastModified", "name", "realm", "battlegroup", "level", "side",
				"achievementPoints", "emblem",
				"members", "achievements", "news", "challenge",
			},
			Policy: OmitField,
		},
	}

	itemResource = resource{
		section: "wow",
		path:    "item/:id",
		mapping: Mapping{
			Fields: []string{
				"id", "name", "description", "icon", "stackable", "itemBind",
				"bonusStats", "itemSpells", "buyPrice", "itemClass", "itemSubClass",
				"containerSlots", "inventoryType", "equippable", "itemLevel",
				"maxCount", "maxDurability", "quality", "sellPrice", "requiredLevel",
				"requiredSkill", "requiredSkillRank", "itemSource", "baseArmor",
				"hasSockets", "isAuctionable", "armor", "displayInfoId", "upgradable",
			},
			Policy: FillWithNull,
		},
	}

	itemSetResource = resource{
		section: "wow",
		path:    "item/set/:id",
		mapping: Mapping{
			Fields: []string{"id", "name", "setBonuses", "items"},
			Policy: FillWithNull,
		},
	}

	mountListResource = resource{
		section: "wow",
		path:    "mount/",
		mapping: Mapping{Fields: []string{"mounts"}, Policy: OmitField},
	}

	petListResource = resource{
		section: "wow",
		path:    "pet/",
		mapping: Mapping{Fields: []string{"pets"}, Policy: OmitField},
	}

	petAbilityResource = resource{
		section: "wow",
		path:    "pet/ability/:id",
		mapping: Mapping{
			Fields: []string{"id", "name", "icon", "cooldown", "rounds", "petTypeId", "isPassive", "hideHints"},
			Policy: FillWithNull,
		},
	}

	petSpeciesResource = resource{
		section: "wow",
		path:    "pet/species/:id",
		mapping: Mapping{
			Fields: []string{"speciesId", "petTypeId", "creatureId", "name", "canBattle", "icon", "description", "source", "abilities"},
			Policy: FillWithNull,
		},
	}

	questResource = resource{
		section: "wow",
		path:    "quest/:id",
		mapping: Mapping{
			Fields: []string{"id", "title", "reqLevel", "suggestedPartyMembers", "category", "level"},
			Policy: FillWithNull,
		},
	}

	realmStatusResource = resource{
		section:       "wow",
		path:          "realm/status",
		sortWhitelist: []string{"type", "population"},
		mapping:       Mapping{Fields: []string{"realms"}, Policy: OmitField},
	}

	recipeResource = resource{
		section: "wow",
		path:    "recipe/:id",
		mapping: Mapping{
			Fields: []string{"id", "name", "profession", "icon"},
			Policy: FillWithNull,
		},
	}

	spellResource = resource{
		section: "wow",
		path:    "spell/:id",
		mapping: Mapping{
			Fields: []string{"id", "name", "icon", "description", "range", "powerCost", "castTime", "cooldown"},
			Policy: FillWithNull,
		},
	}

	zoneResource = resource{
		section: "wow",
		path:    "zone/:id",
		mapping: Mapping{
			Fields: []string{
				"id", "name", "urlSlug", "description", "location", "expansionId",
				"numPlayers", "isDungeon", "isRaid", "advisedMinLevel", "advisedMaxLevel",
				"advisedHeroicMinLevel", "advisedHeroicMaxLevel", "availableModes",
				"mapId", "levelRequirement", "heroicLevelRequirement", "bosses",
			},
			Policy: FillWithNull,
		},
	}

	zoneListResource = resource{
		section: "wow",
		path:    "zone/",
		mapping: Mapping{Fields: []string{"zones"}, Policy: OmitField},
	}

	userProfileResource = resource{
		section:       "account",
		path:          "user",
		authenticated: true,
		mapping: Mapping{
			Fields: []string{"id", "battletag"},
			Policy: FillWithNull,
		},
	}

	userCharactersResource = resource{
		section:       "wow",
		path:          "user/characters",
		authenticated: true,
		mapping:       Mapping{Fields: []string{"characters"}, Policy: OmitField},
	}
)

// call runs one resource request end to end: request spec, fetch pipeline,
// projection.
func (c *Client) call(ctx context.Context, r resource, subs map[string]string, query url.Values) (map[string]interface{}, error) {
	env, err := c.fetch(ctx, r.section, r.path, subs, query, r.authenticated)
	if err != nil {
		return nil, err
	}
	return r.mapping.Apply(env.Data), nil
}

// Achievement fetches one achievement by id. Reward items and criteria are
// reconstructed through their own projections.
func (c *Client) Achievement(ctx context.Context, id int) (map[string]interface{}, error) {
	obj, err := c.call(ctx, achievementResource, map[string]string{"id": strconv.Itoa(id)}, nil)
	if err != nil {
		return nil, err
	}
	if items := rewardItemMapping.ApplyList(obj["rewardItems"]); items != nil {
		obj["rewardItems"] = items
	}
	if criteria := criteriaMapping.ApplyList(obj["criteria"]); criteria != nil {
		obj["criteria"] = criteria
	}
	return obj, nil
}

// Auction fetches the auction-house data file links for a realm.
func (c *Client) Auction(ctx context.Context, realm string) (map[string]interface{}, error) {
	return c.call(ctx, auctionResource, map[string]string{"realm": realm}, nil)
}

// Boss fetches one raid boss by id.
func (c *Client) Boss(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, bossResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// BossList fetches the raid boss catalogue.
func (c *Client) BossList(ctx context.Context) (map[string]interface{}, error) {
	return c.call(ctx, bossListResource, nil, nil)
}

// Character fetches a character profile. Optional data blocks (items,
// stats, mounts, ...) are requested through field selectors; a selector
// containing a comma or a selection beyond the resource's cap is rejected
// before any request is made.
func (c *Client) Character(ctx context.Context, realm, name string, fields ...string) (map[string]interface{}, error) {
	query, err := fieldsQuery(fields, characterResource.maxFields)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, characterResource, map[string]string{"realm": realm, "character": name}, query)
}

// Guild fetches a guild profile, with optional data blocks selected the
// same way as Character.
func (c *Client) Guild(ctx context.Context, realm, name string, fields ...string) (map[string]interface{}, error) {
	query, err := fieldsQuery(fields, guildResource.maxFields)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, guildResource, map[string]string{"realm": realm, "guild": name}, query)
}

// Item fetches one item by id.
func (c *Client) Item(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, itemResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// ItemSet fetches one item set by id.
func (c *Client) ItemSet(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, itemSetResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// Mounts fetches the mount catalogue; each entry is reconstructed through
// the mount projection.
func (c *Client) Mounts(ctx context.Context) ([]map[string]interface{}, error) {
	obj, err := c.call(ctx, mountListResource, nil, nil)
	if err != nil {
		return nil, err
	}
	return mountMapping.ApplyList(obj["mounts"]), nil
}

// Pets fetches the battle-pet catalogue.
func (c *Client) Pets(ctx context.Context) (map[string]interface{}, error) {
	return c.call(ctx, petListResource, nil, nil)
}

// PetAbility fetches one pet ability by id.
func (c *Client) PetAbility(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, petAbilityResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// PetSpecies fetches one pet species by id.
func (c *Client) PetSpecies(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, petSpeciesResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// Quest fetches one quest by id.
func (c *Client) Quest(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, questResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// RealmStatus fetches the status of every realm in the region, each realm
// reconstructed through the realm projection. sortSpec optionally orders
// the answer by one whitelisted key; an unknown key is rejected with the
// allowed keys enumerated.
func (c *Client) RealmStatus(ctx context.Context, sortSpec map[string]string) ([]map[string]interface{}, error) {
	query := url.Values{}
	if len(sortSpec) > 0 {
		key, value, err := sortParam(sortSpec, realmStatusResource.sortWhitelist)
		if err != nil {
			return nil, err
		}
		query.Set(key, value)
	}

	obj, err := c.call(ctx, realmStatusResource, nil, query)
	if err != nil {
		return nil, err
	}
	return realmMapping.ApplyList(obj["realms"]), nil
}

// Recipe fetches one recipe by id.
func (c *Client) Recipe(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, recipeResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// Spell fetches one spell by id.
func (c *Client) Spell(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, spellResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// Zone fetches one zone by id.
func (c *Client) Zone(ctx context.Context, id int) (map[string]interface{}, error) {
	return c.call(ctx, zoneResource, map[string]string{"id": strconv.Itoa(id)}, nil)
}

// ZoneList fetches the zone catalogue.
func (c *Client) ZoneList(ctx context.Context) (map[string]interface{}, error) {
	return c.call(ctx, zoneListResource, nil, nil)
}

// UserProfile fetches the account profile of the user whose bearer token
// the client carries.
func (c *Client) UserProfile(ctx context.Context) (map[string]interface{}, error) {
	return c.call(ctx, userProfileResource, nil, nil)
}

// UserCharacters fetches the characters owned by the user whose bearer
// token the client carries.
func (c *Client) UserCharacters(ctx context.Context) (map[string]interface{}, error) {
	return c.call(ctx, userCharactersResource, nil, nil)
}

// fieldsQuery turns validated field selectors into the fields query
// parameter, or nil when no fields were requested.
func fieldsQuery(fields []string, maxFields int) (url.Values, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	joined, err := fieldsParam(fields, maxFields)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("fields", joined)
	return query, nil
}
