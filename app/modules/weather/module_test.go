package weather

import (
	"testing"

	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/Black-And-White-Club/malta-bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	regions, err := Regions(nil)
	require.NoError(t, err)
	assert.Equal(t, weatherdomain.DefaultRegions, regions)

	regions, err = Regions([]config.RegionConfig{{Name: "Marsaxlokk", Climate: "Coastal"}})
	require.NoError(t, err)
	assert.Equal(t, []weatherdomain.Region{{Name: "Marsaxlokk", Climate: weatherdomain.Coastal}}, regions)

	_, err = Regions([]config.RegionConfig{{Name: "Sahara", Climate: "desert"}})
	assert.ErrorIs(t, err, weatherdomain.ErrUnknownClimate)
}
