package game

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultBalance []byte

const (
	MaxUpgradeLevel = 100
	GridSize        = 10
)

// Category groups part templates by role on the ship
type Category string

const (
	CategoryMain    Category = "Main"
	CategorySub     Category = "Sub"
	CategoryUtility Category = "Utility"
)

// Effect names the passive behavior of a utility part
type Effect string

const (
	EffectNone         Effect = ""
	EffectCollector    Effect = "collector"
	EffectWeaponOS     Effect = "weapon_os"
	EffectShield       Effect = "shield"
	EffectItemEff      Effect = "item_eff"
	EffectAccelBooster Effect = "accel_booster"
	EffectBrakeBooster Effect = "brake_booster"
)

// Ordnance is the projectile family of a sub weapon
type Ordnance string

const (
	OrdnanceMissile Ordnance = "missile"
	OrdnanceBomb    Ordnance = "bomb"
)

// Layout classes of the static ship layout
const (
	LayoutVoid        = 0
	LayoutPurchasable = 1
	LayoutInitial     = 2
)

// ShapeMask is a row-major occupancy footprint. A nil mask means a full rectangle.
type ShapeMask [][]bool

// UnmarshalYAML reads a mask written as rows of 0/1
func (m *ShapeMask) UnmarshalYAML(n *yaml.Node) error {
	var rows [][]int
	if err := n.Decode(&rows); err != nil {
		return fmt.Errorf("shape: %w", err)
	}
	mask := make(ShapeMask, len(rows))
	for r, row := range rows {
		mask[r] = make([]bool, len(row))
		for c, v := range row {
			mask[r][c] = v != 0
		}
	}
	*m = mask
	return nil
}

// ShotSpec describes one projectile of a weapon volley, relative to the ship
type ShotSpec struct {
	OffsetX float64 `yaml:"dx"`
	OffsetY float64 `yaml:"dy"`
	Angle   float64 `yaml:"angle"`  // radians from straight up, positive to the right
	Speed   float64 `yaml:"speed"`  // base speed in px/tick
	Scroll  float64 `yaml:"scroll"` // share of ship speed added every tick
	Damage  float64 `yaml:"damage"` // multiplier on weapon damage
	Pierce  bool    `yaml:"pierce"`
	Radius  float64 `yaml:"radius"`
}

// UpgradeCurve holds the parameters a per-level stat table is expanded from
type UpgradeCurve struct {
	InitCost     float64 `yaml:"init_cost"`
	LastCost     float64 `yaml:"last_cost"`
	Base         float64 `yaml:"base"`
	InitMult     float64 `yaml:"init_mult"`
	MaxMult      float64 `yaml:"max_mult"`
	Absolute     bool    `yaml:"absolute"`
	InitVal      float64 `yaml:"init_val"`
	MaxVal       float64 `yaml:"max_val"`
	BonusOnly    bool    `yaml:"bonus_only"`
	Material     string  `yaml:"material"`
	LastMaterial int     `yaml:"last_material"`
}

// StatRow is one level of an upgrade table
type StatRow struct {
	Level         int     `json:"level"`
	Cost          int     `json:"cost"`
	Value         float64 `json:"value"`
	Material      string  `json:"material,omitempty"`
	MaterialCount int     `json:"material_count,omitempty"`
}

// PartTemplate is the immutable catalog entry of an equippable part
type PartTemplate struct {
	ID       string       `yaml:"id" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	Width    int          `yaml:"w" json:"w"`
	Height   int          `yaml:"h" json:"h"`
	Shape    ShapeMask    `yaml:"shape" json:"shape,omitempty"`
	Category Category     `yaml:"category" json:"category"`
	Effect   Effect       `yaml:"effect" json:"effect,omitempty"`
	Price    int          `yaml:"price" json:"price"`
	Weight   float64      `yaml:"weight" json:"weight"`
	Boost    float64      `yaml:"boost" json:"boost,omitempty"`
	FireRate float64      `yaml:"fire_rate" json:"fire_rate,omitempty"`
	Interval int          `yaml:"interval" json:"interval,omitempty"`
	Shots    []ShotSpec   `yaml:"shots" json:"-"`
	Ordnance Ordnance     `yaml:"ordnance" json:"ordnance,omitempty"`
	Range    float64      `yaml:"range" json:"range,omitempty"`
	Curve    UpgradeCurve `yaml:"curve" json:"-"`
}

// Occupies reports whether the template covers (r, c) of its bounding box
func (t *PartTemplate) Occupies(r, c int) bool {
	if r < 0 || c < 0 || r >= t.Height || c >= t.Width {
		return false
	}
	if t.Shape == nil {
		return true
	}
	return r < len(t.Shape) && c < len(t.Shape[r]) && t.Shape[r][c]
}

// Footprint returns the grid cells covered when anchored at (row, col)
func (t *PartTemplate) Footprint(row, col int) []Cell {
	cells := make([]Cell, 0, t.Width*t.Height)
	for r := 0; r < t.Height; r++ {
		for c := 0; c < t.Width; c++ {
			if t.Occupies(r, c) {
				cells = append(cells, Cell{Row: row + r, Col: col + c})
			}
		}
	}
	return cells
}

// EnemyTier is a spawnable enemy definition
type EnemyTier struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Tag       string  `yaml:"tier"`
	HP        float64 `yaml:"hp"`
	Shield    float64 `yaml:"shield"`
	Speed     float64 `yaml:"speed"`
	Turn      float64 `yaml:"turn"`
	Damage    float64 `yaml:"damage"` // ram damage dealt to cargo
	Movement  string  `yaml:"movement"`
	Weapon    string  `yaml:"weapon"`
	DropTable string  `yaml:"drop_table"`
	DropCount int     `yaml:"drop_count"`
	Score     int     `yaml:"score"`
}

// EnemyWeapon is a firing definition referenced by enemy tiers
type EnemyWeapon struct {
	ID       string      `yaml:"-"`
	Name     string      `yaml:"name"`
	Damage   float64     `yaml:"damage"`
	Speed    float64     `yaml:"speed"`
	Cooldown int         `yaml:"cooldown"`
	Shots    int         `yaml:"shots"`
	Angle    AnglePolicy `yaml:"angle"`
}

// ItemCategory selects what picking up an item does
type ItemCategory string

const (
	ItemMaterial ItemCategory = "MATERIAL"
	ItemBuff     ItemCategory = "BUFF"
	ItemHeal     ItemCategory = "HEAL"
	ItemMoney    ItemCategory = "MONEY"
	ItemStat     ItemCategory = "STAT"
)

// ItemDef is a droppable item definition
type ItemDef struct {
	ID       string       `yaml:"-" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	Category ItemCategory `yaml:"category" json:"category"`
	Sub      string       `yaml:"sub" json:"sub,omitempty"`
	Value    float64      `yaml:"value" json:"value,omitempty"`
	Duration float64      `yaml:"duration" json:"duration,omitempty"` // seconds
	Rarity   int          `yaml:"rarity" json:"rarity"`
	Color    string       `yaml:"color" json:"color,omitempty"`
}

// DropEntry is one independent roll of a drop table
type DropEntry struct {
	Item string  `yaml:"item"`
	Rate float64 `yaml:"rate"`
}

// Weather modifies drift and ambient particles
type Weather struct {
	ID   string  `yaml:"-"`
	Name string  `yaml:"name"`
	Wind float64 `yaml:"wind"`
	Rain float64 `yaml:"rain"`
}

// WeatherOdds is one weighted outcome of a weather table (percent out of 100)
type WeatherOdds struct {
	Weather string `yaml:"weather"`
	Percent int    `yaml:"percent"`
}

// DifficultyParams configures missions of one star rating
type DifficultyParams struct {
	MinDistance  int     `yaml:"min_distance"`
	MaxDistance  int     `yaml:"max_distance"`
	RewardMod    float64 `yaml:"reward_mod"`
	WeatherTable string  `yaml:"weather_table"`
	EnemyTier    string  `yaml:"enemy_tier"`
	ShieldMod    float64 `yaml:"shield_mod"`
	HPMod        float64 `yaml:"hp_mod"`
}

// ScalingRow maps a progression threshold to star odds (index 0 = 1 star)
type ScalingRow struct {
	MinStat int   `yaml:"min_stat"`
	Odds    []int `yaml:"odds"`
}

// MissionConfig holds mission generation parameters
type MissionConfig struct {
	Count        int                      `yaml:"count"`
	BaseRate     float64                  `yaml:"base_rate"`
	AverageSpeed float64                  `yaml:"average_speed"`
	TimeBuffer   int                      `yaml:"time_buffer"`
	RerollCost   int                      `yaml:"reroll_cost"`
	MaxWeight    int                      `yaml:"max_weight"`
	Scaling      []ScalingRow             `yaml:"scaling"`
	Difficulty   map[int]DifficultyParams `yaml:"difficulty"`
}

// Physics holds tunable flight constants
type Physics struct {
	MinSpeed        float64 `yaml:"min_speed"`
	Friction        float64 `yaml:"friction"`
	BaseMaxSpeed    float64 `yaml:"base_max_speed"`
	BaseAccel       float64 `yaml:"base_accel"`
	BrakeForce      float64 `yaml:"brake_force"`
	MissionScale    float64 `yaml:"mission_scale"`
	MissionDivisor  float64 `yaml:"mission_divisor"`
	CargoHP         float64 `yaml:"cargo_hp"`
	MissileCooldown int     `yaml:"missile_cooldown"`
	SpawnInterval   int     `yaml:"spawn_interval"`
	WeatherInterval float64 `yaml:"weather_interval"`
	FireInterval    int     `yaml:"fire_interval"`
}

// PlayerBase holds the unupgraded ship stats
type PlayerBase struct {
	HP     float64 `yaml:"hp"`
	Engine float64 `yaml:"engine"`
	Money  int     `yaml:"money"`
}

// SeedPart is a part equipped on a fresh or reset grid
type SeedPart struct {
	Part  string `yaml:"part"`
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
	Level int    `yaml:"level"`
}

// GridConfig holds the static ship layout
type GridConfig struct {
	UnlockPrice int        `yaml:"unlock_price"`
	Layout      [][]int    `yaml:"layout"`
	Seed        []SeedPart `yaml:"seed"`
}

// StatUpgrade is a purchasable player stat track
type StatUpgrade struct {
	Key   string       `yaml:"key"`
	Name  string       `yaml:"name"`
	Curve UpgradeCurve `yaml:"curve"`
}

// Balance is the raw document decoded from YAML
type Balance struct {
	Physics       Physics                    `yaml:"physics"`
	Player        PlayerBase                 `yaml:"player"`
	Grid          GridConfig                 `yaml:"grid"`
	Parts         []*PartTemplate            `yaml:"parts"`
	Upgrades      []StatUpgrade              `yaml:"upgrades"`
	Movements     map[string]MovementPattern `yaml:"movements"`
	EnemyWeapons  map[string]*EnemyWeapon    `yaml:"enemy_weapons"`
	Enemies       []*EnemyTier               `yaml:"enemies"`
	Items         map[string]*ItemDef        `yaml:"items"`
	DropTables    map[string][]DropEntry     `yaml:"drop_tables"`
	Weather       map[string]*Weather        `yaml:"weather"`
	WeatherTables map[string][]WeatherOdds   `yaml:"weather_tables"`
	Missions      MissionConfig              `yaml:"missions"`
}

// Catalog is the read-only lookup of every balance table. Safe for concurrent reads.
type Catalog struct {
	Physics  Physics
	Player   PlayerBase
	Grid     GridConfig
	Missions MissionConfig

	parts         map[string]*PartTemplate
	partOrder     []string
	partTables    map[string][]StatRow
	upgrades      map[string][]StatRow
	upgradeOrder  []StatUpgrade
	movements     map[string]MovementPattern
	weapons       map[string]*EnemyWeapon
	tiersByTag    map[string][]*EnemyTier
	items         map[string]*ItemDef
	dropTables    map[string][]DropEntry
	weather       map[string]*Weather
	weatherTables map[string][]WeatherOdds
}

// DefaultCatalog parses the embedded balance tables
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultBalance)
}

// LoadCatalog reads balance tables from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML balance document
func ParseCatalog(data []byte) (*Catalog, error) {
	var b Balance
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	return NewCatalog(b)
}

// NewCatalog indexes a decoded balance document and expands its upgrade curves
func NewCatalog(b Balance) (*Catalog, error) {
	c := &Catalog{
		Physics:       b.Physics,
		Player:        b.Player,
		Grid:          b.Grid,
		Missions:      b.Missions,
		parts:         make(map[string]*PartTemplate, len(b.Parts)),
		partTables:    make(map[string][]StatRow, len(b.Parts)),
		upgrades:      make(map[string][]StatRow, len(b.Upgrades)),
		upgradeOrder:  b.Upgrades,
		movements:     b.Movements,
		weapons:       b.EnemyWeapons,
		tiersByTag:    make(map[string][]*EnemyTier),
		items:         b.Items,
		dropTables:    b.DropTables,
		weather:       b.Weather,
		weatherTables: b.WeatherTables,
	}

	if len(b.Grid.Layout) != GridSize {
		return nil, fmt.Errorf("grid layout must have %d rows, got %d", GridSize, len(b.Grid.Layout))
	}
	for r, row := range b.Grid.Layout {
		if len(row) != GridSize {
			return nil, fmt.Errorf("grid layout row %d must have %d cells, got %d", r, GridSize, len(row))
		}
	}

	for _, p := range b.Parts {
		if p.ID == "" {
			return nil, fmt.Errorf("part without id")
		}
		if p.Width < 1 || p.Height < 1 {
			return nil, fmt.Errorf("part %s: size %dx%d", p.ID, p.Width, p.Height)
		}
		if p.Shape != nil {
			if len(p.Shape) != p.Height {
				return nil, fmt.Errorf("part %s: shape has %d rows, want %d", p.ID, len(p.Shape), p.Height)
			}
			for _, row := range p.Shape {
				if len(row) != p.Width {
					return nil, fmt.Errorf("part %s: shape row width %d, want %d", p.ID, len(row), p.Width)
				}
			}
		}
		if _, dup := c.parts[p.ID]; dup {
			return nil, fmt.Errorf("duplicate part %s", p.ID)
		}
		c.parts[p.ID] = p
		c.partOrder = append(c.partOrder, p.ID)
		c.partTables[p.ID] = expandCurve(p.Curve)
	}
	for _, s := range b.Grid.Seed {
		if _, ok := c.parts[s.Part]; !ok {
			return nil, fmt.Errorf("seed part %s not in catalog", s.Part)
		}
	}

	for _, u := range b.Upgrades {
		c.upgrades[u.Key] = expandCurve(u.Curve)
	}

	for id, w := range c.weapons {
		w.ID = id
	}
	for _, t := range b.Enemies {
		if t.Weapon != "" {
			if _, ok := c.weapons[t.Weapon]; !ok {
				return nil, fmt.Errorf("enemy %s: unknown weapon %s", t.ID, t.Weapon)
			}
		}
		c.tiersByTag[t.Tag] = append(c.tiersByTag[t.Tag], t)
	}
	for id, it := range c.items {
		it.ID = id
	}
	for id, w := range c.weather {
		w.ID = id
	}
	if _, ok := c.weather[DefaultWeather]; !ok {
		return nil, fmt.Errorf("weather table must define %s", DefaultWeather)
	}
	for id, table := range c.weatherTables {
		for _, o := range table {
			if _, ok := c.weather[o.Weather]; !ok {
				return nil, fmt.Errorf("weather table %s: unknown weather %s", id, o.Weather)
			}
		}
	}
	for stars, d := range b.Missions.Difficulty {
		if _, ok := c.weatherTables[d.WeatherTable]; !ok {
			return nil, fmt.Errorf("difficulty %d: unknown weather table %q", stars, d.WeatherTable)
		}
		if len(c.tiersByTag[d.EnemyTier]) == 0 {
			return nil, fmt.Errorf("difficulty %d: no enemies tagged %q", stars, d.EnemyTier)
		}
	}
	return c, nil
}

// expandCurve builds level 0..MaxUpgradeLevel rows: geometric cost, linear value,
// a material requirement every tenth level.
func expandCurve(k UpgradeCurve) []StatRow {
	rows := make([]StatRow, 0, MaxUpgradeLevel+1)
	growth := 1.0
	if k.InitCost > 0 && k.LastCost > 0 {
		growth = math.Pow(k.LastCost/k.InitCost, 1.0/MaxUpgradeLevel)
	}
	base := k.Base
	if base == 0 && !k.Absolute {
		base = 10
	}
	for lv := 0; lv <= MaxUpgradeLevel; lv++ {
		frac := float64(lv) / MaxUpgradeLevel
		var val float64
		if k.Absolute {
			val = k.InitVal + (k.MaxVal-k.InitVal)*frac
		} else {
			mult := k.InitMult + (k.MaxMult-k.InitMult)*frac
			target := base * mult
			val = math.Floor(target)
			if k.BonusOnly {
				val = math.Floor(target - k.Base)
			}
		}
		row := StatRow{
			Level: lv,
			Cost:  int(math.Floor(k.InitCost * math.Pow(growth, float64(lv)))),
			Value: val,
		}
		if lv > 0 && lv%10 == 0 && k.Material != "" {
			row.Material = k.Material
			row.MaterialCount = int(math.Floor(1 + float64(k.LastMaterial-1)*float64(lv-10)/90))
		}
		rows = append(rows, row)
	}
	return rows
}

// Part looks up a part template
func (c *Catalog) Part(id string) (*PartTemplate, bool) {
	p, ok := c.parts[id]
	return p, ok
}

// Parts returns every part template in catalog order
func (c *Catalog) Parts() []*PartTemplate {
	out := make([]*PartTemplate, 0, len(c.partOrder))
	for _, id := range c.partOrder {
		out = append(out, c.parts[id])
	}
	return out
}

// PartStat returns the per-level row of a part, clamped to the table
func (c *Catalog) PartStat(id string, level int) (StatRow, bool) {
	return lookupRow(c.partTables[id], level)
}

// UpgradeStat returns the per-level row of a player stat track
func (c *Catalog) UpgradeStat(key string, level int) (StatRow, bool) {
	return lookupRow(c.upgrades[key], level)
}

// UpgradeValue returns the bonus value of a stat track at level, 0 if unknown
func (c *Catalog) UpgradeValue(key string, level int) float64 {
	row, ok := c.UpgradeStat(key, level)
	if !ok {
		return 0
	}
	return row.Value
}

// StatUpgrades lists the player stat tracks in catalog order
func (c *Catalog) StatUpgrades() []StatUpgrade {
	return c.upgradeOrder
}

func lookupRow(rows []StatRow, level int) (StatRow, bool) {
	if len(rows) == 0 {
		return StatRow{}, false
	}
	if level < 0 {
		level = 0
	}
	if level >= len(rows) {
		level = len(rows) - 1
	}
	return rows[level], true
}

// Movement resolves a movement pattern id
func (c *Catalog) Movement(id string) (MovementPattern, bool) {
	m, ok := c.movements[id]
	return m, ok
}

// EnemyWeapon looks up an enemy weapon
func (c *Catalog) EnemyWeapon(id string) (*EnemyWeapon, bool) {
	w, ok := c.weapons[id]
	return w, ok
}

// Tiers returns the enemy definitions carrying a tier tag
func (c *Catalog) Tiers(tag string) []*EnemyTier {
	return c.tiersByTag[tag]
}

// Item looks up an item definition
func (c *Catalog) Item(id string) (*ItemDef, bool) {
	it, ok := c.items[id]
	return it, ok
}

// DropTable looks up a drop table
func (c *Catalog) DropTable(id string) ([]DropEntry, bool) {
	t, ok := c.dropTables[id]
	return t, ok
}

// Weather looks up a weather kind, falling back to the default
func (c *Catalog) Weather(id string) *Weather {
	if w, ok := c.weather[id]; ok {
		return w
	}
	return c.weather[DefaultWeather]
}

// WeatherTable looks up the weighted outcomes of a weather table
func (c *Catalog) WeatherTable(id string) ([]WeatherOdds, bool) {
	t, ok := c.weatherTables[id]
	return t, ok
}

// LayoutClass returns the static class of a grid cell; out of bounds is void
func (c *Catalog) LayoutClass(row, col int) int {
	if row < 0 || col < 0 || row >= GridSize || col >= GridSize {
		return LayoutVoid
	}
	return c.Grid.Layout[row][col]
}

// InitialCells lists the cells unlocked on a fresh grid, row-major
func (c *Catalog) InitialCells() []Cell {
	var cells []Cell
	for r := 0; r < GridSize; r++ {
		for col := 0; col < GridSize; col++ {
			if c.Grid.Layout[r][col] == LayoutInitial {
				cells = append(cells, Cell{Row: r, Col: col})
			}
		}
	}
	return cells
}

// Materials lists material item ids sorted by id
func (c *Catalog) Materials() []string {
	var ids []string
	for id, it := range c.items {
		if it.Category == ItemMaterial {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
