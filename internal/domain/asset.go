package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// AssetType is the closed set of gift kinds a wedding ledger can hold.
type AssetType string

const (
	AssetTypeQuarterGold  AssetType = "CEYREK_ALTIN"
	AssetTypeHalfGold     AssetType = "YARIM_ALTIN"
	AssetTypeFullGold     AssetType = "TAM_ALTIN"
	AssetTypeResat        AssetType = "RESAT_ALTIN"
	AssetTypeCumhuriyet   AssetType = "CUMHURIYET_ALTIN"
	AssetTypeGramGold22K  AssetType = "GRAM_ALTIN_22K"
	AssetTypeBesiBirYerde AssetType = "BESI_BIR_YERDE"
	AssetTypeBracelet     AssetType = "BILEZIK"
	AssetTypeGramGold     AssetType = "GRAM_GOLD"
	AssetTypeTurkishLira  AssetType = "TURKISH_LIRA"
	AssetTypeDollar       AssetType = "DOLLAR"
	AssetTypeEuro         AssetType = "EURO"
)

// AssetFamily groups asset types by how they are priced.
type AssetFamily string

const (
	FamilyGoldCoin   AssetFamily = "gold_coin"
	FamilyGoldWeight AssetFamily = "gold_weight"
	FamilyCurrency   AssetFamily = "currency"
)

var assetFamilies = []AssetFamily{FamilyGoldCoin, FamilyGoldWeight, FamilyCurrency}

// AssetFamilies returns the pricing families in display order.
func AssetFamilies() []AssetFamily {
	return append([]AssetFamily(nil), assetFamilies...)
}

// Requirements lists the inputs a caller must supply for an asset type.
type Requirements struct {
	Date     bool `json:"date"`
	Quantity bool `json:"quantity"`
	Grams    bool `json:"grams"`
	Carat    bool `json:"carat"`
}

type assetTypeInfo struct {
	name   string
	family AssetFamily
	req    Requirements
}

// assetTypes is unexported to prevent external mutation; order is display order.
var assetTypes = []AssetType{
	AssetTypeQuarterGold,
	AssetTypeHalfGold,
	AssetTypeFullGold,
	AssetTypeResat,
	AssetTypeCumhuriyet,
	AssetTypeGramGold22K,
	AssetTypeBesiBirYerde,
	AssetTypeBracelet,
	AssetTypeGramGold,
	AssetTypeTurkishLira,
	AssetTypeDollar,
	AssetTypeEuro,
}

var assetTypeInfos = map[AssetType]assetTypeInfo{
	AssetTypeQuarterGold:  {"Çeyrek Altın", FamilyGoldCoin, Requirements{Date: true}},
	AssetTypeHalfGold:     {"Yarım Altın", FamilyGoldCoin, Requirements{Date: true}},
	AssetTypeFullGold:     {"Tam Altın", FamilyGoldCoin, Requirements{Date: true}},
	AssetTypeResat:        {"Reşat Altın", FamilyGoldCoin, Requirements{Date: true}},
	AssetTypeCumhuriyet:   {"Cumhuriyet Altını", FamilyGoldCoin, Requirements{Date: true}},
	AssetTypeBesiBirYerde: {"Beşi Bir Yerde", FamilyGoldCoin, Requirements{Date: true}},
	AssetTypeGramGold22K:  {"22 Ayar Gram Altın", FamilyGoldWeight, Requirements{Date: true, Grams: true}},
	AssetTypeBracelet:     {"Bilezik", FamilyGoldWeight, Requirements{Date: true, Grams: true, Carat: true}},
	AssetTypeGramGold:     {"Gram Altın", FamilyGoldWeight, Requirements{Date: true, Grams: true, Carat: true}},
	AssetTypeTurkishLira:  {"Türk Lirası", FamilyCurrency, Requirements{Quantity: true}},
	AssetTypeDollar:       {"Dolar", FamilyCurrency, Requirements{Date: true, Quantity: true}},
	AssetTypeEuro:         {"Euro", FamilyCurrency, Requirements{Date: true, Quantity: true}},
}

// AssetTypes returns every known asset type in display order.
func AssetTypes() []AssetType {
	return append([]AssetType(nil), assetTypes...)
}

// ParseAssetType validates a wire value against the closed enumeration.
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown asset type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known asset types.
func (t AssetType) Valid() bool {
	_, ok := assetTypeInfos[t]
	return ok
}

// DisplayName returns the Turkish label shown to users, or the raw value for unknown types.
func (t AssetType) DisplayName() string {
	if info, ok := assetTypeInfos[t]; ok {
		return info.name
	}
	return string(t)
}

// Family returns the pricing family, or "" for unknown types.
func (t AssetType) Family() AssetFamily {
	return assetTypeInfos[t].family
}

// Requirements returns the inputs required to value t.
func (t AssetType) Requirements() Requirements {
	return assetTypeInfos[t].req
}

// DateSensitive reports whether valuing t needs a price-series lookup.
func (t AssetType) DateSensitive() bool {
	return t.Requirements().Date
}

// TypesInFamily returns the asset types of one pricing family in display order.
func TypesInFamily(f AssetFamily) []AssetType {
	return lo.Filter(assetTypes, func(t AssetType, _ int) bool {
		return t.Family() == f
	})
}
