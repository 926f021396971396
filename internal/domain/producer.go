package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rarity is the tier of a producer. Tiers are ordered from least to most valuable.
type Rarity string

// Rarity tiers
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythical  Rarity = "mythical"
)

// Rarities lists every rarity tier in ascending order
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
	RarityMythical,
}

// Rank returns the position of the rarity in the tier order, or -1 if unknown
func (r Rarity) Rank() int {
	for i, candidate := range Rarities {
		if candidate == r {
			return i
		}
	}
	return -1
}

// IsValid reports whether the rarity is a known tier
func (r Rarity) IsValid() bool {
	return r.Rank() >= 0
}

// Trait is an optional, mutually exclusive tag on a producer.
// Traits are ordered: none < golden < rainbow < shiny < void.
type Trait string

// Trait tags
const (
	TraitNone    Trait = "none"
	TraitGolden  Trait = "golden"
	TraitRainbow Trait = "rainbow"
	TraitShiny   Trait = "shiny"
	TraitVoid    Trait = "void"
)

// Traits lists every trait tag in ascending order
var Traits = []Trait{
	TraitNone,
	TraitGolden,
	TraitRainbow,
	TraitShiny,
	TraitVoid,
}

// Rank returns the position of the trait in the trait order, or -1 if unknown
func (t Trait) Rank() int {
	for i, candidate := range Traits {
		if candidate == t {
			return i
		}
	}
	return -1
}

// IsValid reports whether the trait is a known tag
func (t Trait) IsValid() bool {
	return t.Rank() >= 0
}

// VariantKeySeparator separates the parts of a variant key
const VariantKeySeparator = ":"

// Variant identifies a kind of producer: base type, rarity tier and trait tag.
// Variants are immutable values and are safe to use as map keys.
type Variant struct {
	Type   string `json:"type" validate:"required,max=64"`
	Rarity Rarity `json:"rarity" validate:"required"`
	Trait  Trait  `json:"trait"`
}

// NewVariant builds a variant, normalising the type name and defaulting the trait
func NewVariant(producerType string, rarity Rarity, trait Trait) Variant {
	if trait == "" {
		trait = TraitNone
	}
	return Variant{
		Type:   strings.ToLower(strings.TrimSpace(producerType)),
		Rarity: rarity,
		Trait:  trait,
	}
}

// Key returns the canonical storage key "type:rarity:trait"
func (v Variant) Key() string {
	trait := v.Trait
	if trait == "" {
		trait = TraitNone
	}
	return v.Type + VariantKeySeparator + string(v.Rarity) + VariantKeySeparator + string(trait)
}

// Validate checks that every part of the variant is known
func (v Variant) Validate() error {
	if v.Type == "" || strings.Contains(v.Type, VariantKeySeparator) {
		return fmt.Errorf("%w: type %q", ErrInvalidVariant, v.Type)
	}
	if !v.Rarity.IsValid() {
		return fmt.Errorf("%w: rarity %q", ErrInvalidVariant, v.Rarity)
	}
	if v.Trait != "" && !v.Trait.IsValid() {
		return fmt.Errorf("%w: trait %q", ErrInvalidVariant, v.Trait)
	}
	return nil
}

// DisplayName renders the variant for humans, e.g. "Golden Rare Dragon"
func (v Variant) DisplayName() string {
	caser := cases.Title(language.English)
	parts := make([]string, 0, 3)
	if v.Trait != "" && v.Trait != TraitNone {
		parts = append(parts, caser.String(string(v.Trait)))
	}
	parts = append(parts, caser.String(string(v.Rarity)), caser.String(v.Type))
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer
func (v Variant) String() string {
	return v.Key()
}

// ParseVariantKey parses a key produced by Variant.Key
func ParseVariantKey(key string) (Variant, error) {
	parts := strings.Split(key, VariantKeySeparator)
	if len(parts) != 3 {
		return Variant{}, fmt.Errorf("%w: malformed key %q", ErrInvalidVariant, key)
	}
	v := Variant{Type: parts[0], Rarity: Rarity(parts[1]), Trait: Trait(parts[2])}
	if err := v.Validate(); err != nil {
		return Variant{}, err
	}
	return v, nil
}

// AssignmentKey identifies one (owner, variant) production stream
type AssignmentKey struct {
	OwnerID    string
	VariantKey string
}

// NewAssignmentKey builds the key for an owner and variant
func NewAssignmentKey(ownerID string, variant Variant) AssignmentKey {
	return AssignmentKey{OwnerID: ownerID, VariantKey: variant.Key()}
}

// String implements fmt.Stringer for logging
func (k AssignmentKey) String() string {
	return k.OwnerID + "/" + k.VariantKey
}
