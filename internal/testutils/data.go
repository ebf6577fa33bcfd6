package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// DataGenerator provides deterministic fake Discord data for tests.
type DataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewDataGenerator creates a generator with an optional seed.
func NewDataGenerator(seed ...int64) *DataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &DataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed, for reproducing failures.
func (g *DataGenerator) Seed() int64 {
	return g.seed
}

// DiscordID returns an 18-digit snowflake-shaped id.
func (g *DataGenerator) DiscordID() string {
	return g.faker.Numerify("1#################")
}

// Username returns a plausible Discord username.
func (g *DataGenerator) Username() string {
	return g.faker.Username()
}

// Amount returns a gold amount in [lo, hi].
func (g *DataGenerator) Amount(lo, hi int) int64 {
	return int64(g.faker.Number(lo, hi))
}

// Sentence returns chat-like message content.
func (g *DataGenerator) Sentence() string {
	return g.faker.Sentence(8)
}
