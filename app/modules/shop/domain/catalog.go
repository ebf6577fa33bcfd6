// Package shopdomain holds the item catalog and the trading rules.
package shopdomain

import (
	"errors"
	"fmt"
)

// Currency an item is priced in.
type Currency string

const (
	Gold     Currency = "gold"
	Heirloom Currency = "heirloom"
)

// Kind tells whether an item is used up.
type Kind string

const (
	Consumable  Kind = "consumable"
	Collectible Kind = "collectible"
)

// EffectType is what using an item does.
type EffectType string

const (
	EffectNone       EffectType = ""
	EffectExp        EffectType = "exp"
	EffectDailyBoost EffectType = "daily_boost"
)

// Effect is applied when a consumable is used.
type Effect struct {
	Type       EffectType
	Exp        int64
	DailyBoost float64
}

// Describe renders the effect for the catalog.
func (e Effect) Describe() string {
	switch e.Type {
	case EffectExp:
		return fmt.Sprintf("+%d EXP", e.Exp)
	case EffectDailyBoost:
		return fmt.Sprintf("+%.1f daily multiplier", e.DailyBoost)
	}
	return "no effect"
}

// Item is a catalog entry.
type Item struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Price       int64
	Currency    Currency
	Kind        Kind
	Effect      Effect
}

// Usable reports whether the item can be consumed.
func (i Item) Usable() bool {
	return i.Kind == Consumable && i.Effect.Type != EffectNone
}

// Sellable reports whether the shop buys the item back.
func (i Item) Sellable() bool {
	return i.Currency == Gold
}

// Display is the emoji and name.
func (i Item) Display() string {
	if i.Emoji == "" {
		return i.Name
	}
	return i.Emoji + " " + i.Name
}

const (
	// MaxQuantity bounds one buy or sell.
	MaxQuantity = 99
	// SellPercent of the price is refunded.
	SellPercent = 50
)

var (
	ErrUnknownItem      = errors.New("unknown item")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 99")
	ErrNotSellable      = errors.New("item cannot be sold")
	ErrNotUsable        = errors.New("item cannot be used")
	ErrNotEnoughItems   = errors.New("not enough of that item")
	ErrNotEnoughBalance = errors.New("not enough currency")
)

// Catalog lists every item in display order.
var Catalog = []Item{
	{
		ID:          "exp_tonic",
		Name:        "EXP Tonic",
		Emoji:       "🧪",
		Description: "A bitter brew from a Valletta apothecary.",
		Price:       250,
		Currency:    Gold,
		Kind:        Consumable,
		Effect:      Effect{Type: EffectExp, Exp: 500},
	},
	{
		ID:          "greater_exp_tonic",
		Name:        "Greater EXP Tonic",
		Emoji:       "⚗️",
		Description: "Distilled twice in the cellars of Mdina.",
		Price:       1000,
		Currency:    Gold,
		Kind:        Consumable,
		Effect:      Effect{Type: EffectExp, Exp: 2500},
	},
	{
		ID:          "fortune_scroll",
		Name:        "Fortune Scroll",
		Emoji:       "📜",
		Description: "Blessed by a Gozitan fortune teller.",
		Price:       600,
		Currency:    Gold,
		Kind:        Consumable,
		Effect:      Effect{Type: EffectDailyBoost, DailyBoost: 1.0},
	},
	{
		ID:          "lucky_coin",
		Name:        "Lucky Coin",
		Emoji:       "🪙",
		Description: "An old Maltese scudo. Purely decorative.",
		Price:       150,
		Currency:    Gold,
		Kind:        Collectible,
	},
	{
		ID:          "maltese_cross",
		Name:        "Maltese Cross",
		Emoji:       "✠",
		Description: "The eight-pointed cross of the Knights.",
		Price:       5000,
		Currency:    Gold,
		Kind:        Collectible,
	},
	{
		ID:          "elders_tonic",
		Name:        "Elder's Tonic",
		Emoji:       "🍷",
		Description: "Only the retired know the recipe.",
		Price:       2,
		Currency:    Heirloom,
		Kind:        Consumable,
		Effect:      Effect{Type: EffectExp, Exp: 5000},
	},
	{
		ID:          "ancestral_banner",
		Name:        "Ancestral Banner",
		Emoji:       "🚩",
		Description: "Flown by your family for generations.",
		Price:       4,
		Currency:    Heirloom,
		Kind:        Collectible,
	},
}

// Find looks an item up by id.
func Find(id string) (Item, error) {
	for _, item := range Catalog {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, ErrUnknownItem
}

// CheckQuantity validates a buy or sell quantity.
func CheckQuantity(q int) error {
	if q < 1 || q > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// Cost is the price of q items.
func (i Item) Cost(q int) int64 {
	return i.Price * int64(q)
}

// Refund is what selling q items pays back, rounded down.
func (i Item) Refund(q int) int64 {
	return i.Cost(q) * SellPercent / 100
}
