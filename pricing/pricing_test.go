package pricing

import (
	"testing"

	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrict(t *testing.T) {
	b := NewBuilder(nil)

	t.Run("under caps max only", func(t *testing.T) {
		r := b.Strict(core.Under(30000))
		require.NotNil(t, r.Max)
		assert.Nil(t, r.Min)
		assert.Equal(t, 30000.0, *r.Max)
	})

	t.Run("over floors min only", func(t *testing.T) {
		r := b.Strict(core.Over(100000))
		require.NotNil(t, r.Min)
		assert.Nil(t, r.Max)
		assert.Equal(t, 100000.0, *r.Min)
	})

	t.Run("between keeps both bounds", func(t *testing.T) {
		r := b.Strict(core.Between(10000, 30000))
		require.NotNil(t, r.Min)
		require.NotNil(t, r.Max)
		assert.Equal(t, 10000.0, *r.Min)
		assert.Equal(t, 30000.0, *r.Max)
	})

	t.Run("around uses capped percentage delta", func(t *testing.T) {
		// 2% of 150000 = 3000 > cap 50, so delta is 50.
		r := b.Strict(core.Around(150000))
		require.NotNil(t, r.Min)
		require.NotNil(t, r.Max)
		assert.Equal(t, 149950.0, *r.Min)
		assert.Equal(t, 150050.0, *r.Max)
	})

	t.Run("around small target uses percentage", func(t *testing.T) {
		// 2% of 1000 = 20 < cap 50, so delta is 20.
		r := b.Strict(core.Around(1000))
		assert.Equal(t, 980.0, *r.Min)
		assert.Equal(t, 1020.0, *r.Max)
	})

	t.Run("none is an open range", func(t *testing.T) {
		r := b.Strict(core.NoPriceIntent())
		assert.Nil(t, r.Min)
		assert.Nil(t, r.Max)
	})
}

func TestNearMiss(t *testing.T) {
	b := NewBuilder(nil)

	t.Run("under widens max by percentage", func(t *testing.T) {
		// max(30000*10%, 200) = 3000
		r := b.NearMiss(core.Under(30000))
		require.NotNil(t, r.Max)
		assert.Nil(t, r.Min)
		assert.Equal(t, 33000.0, *r.Max)
	})

	t.Run("under small amount uses absolute floor", func(t *testing.T) {
		// max(1000*10%, 200) = 200
		r := b.NearMiss(core.Under(1000))
		assert.Equal(t, 1200.0, *r.Max)
	})

	t.Run("over widens min downward and clamps at zero", func(t *testing.T) {
		r := b.NearMiss(core.Over(100))
		require.NotNil(t, r.Min)
		assert.Equal(t, 0.0, *r.Min)
	})

	t.Run("around widens symmetrically from target", func(t *testing.T) {
		// strict = 150000 +- 50; near-miss delta = max(150000*10%, 200) = 15000
		r := b.NearMiss(core.Around(150000))
		assert.Equal(t, 134950.0, *r.Min)
		assert.Equal(t, 165050.0, *r.Max)
	})
}

func TestNearMissContainsStrict(t *testing.T) {
	b := NewBuilder(nil)

	intents := []core.PriceIntent{
		core.NoPriceIntent(),
		core.Under(30000),
		core.Under(500),
		core.Over(100),
		core.Over(250000),
		core.Between(10000, 30000),
		core.Between(100, 200),
		core.Around(1000),
		core.Around(150000),
		core.Around(10),
	}

	for _, intent := range intents {
		strict := b.Strict(intent)
		nearMiss := b.NearMiss(intent)

		if strict.Min != nil {
			require.NotNil(t, nearMiss.Min)
			assert.LessOrEqual(t, *nearMiss.Min, *strict.Min, "intent %+v", intent)
			assert.GreaterOrEqual(t, *nearMiss.Min, 0.0, "intent %+v", intent)
		}
		if strict.Max != nil {
			require.NotNil(t, nearMiss.Max)
			assert.GreaterOrEqual(t, *nearMiss.Max, *strict.Max, "intent %+v", intent)
		}
	}
}

func TestBuildCurrencyNormalization(t *testing.T) {
	b := NewBuilder(currency.NewConverter(currency.DefaultRates()))

	t.Run("USD intent converts to EUR", func(t *testing.T) {
		intent := core.Under(100)
		intent.Currency = "USD"
		strict, nearMiss, err := b.Build(intent)
		require.NoError(t, err)
		assert.Equal(t, "EUR", strict.Currency)
		assert.Equal(t, 92.0, *strict.Max)
		// near-miss widens the converted bound
		assert.Equal(t, 92.0+200.0, *nearMiss.Max)
	})

	t.Run("unsupported currency fails the build", func(t *testing.T) {
		intent := core.Under(100)
		intent.Currency = "CHF"
		_, _, err := b.Build(intent)
		require.Error(t, err)
	})

	t.Run("empty currency treated as EUR", func(t *testing.T) {
		strict, _, err := b.Build(core.Under(30000))
		require.NoError(t, err)
		assert.Equal(t, 30000.0, *strict.Max)
	})
}

func TestWithTolerances(t *testing.T) {
	custom := DefaultTolerances()
	custom.NearMissAbsFloorEUR = 500
	b := NewBuilder(nil, WithTolerances(custom))

	r := b.NearMiss(core.Under(1000))
	assert.Equal(t, 1500.0, *r.Max)
	assert.Equal(t, 500.0, b.Tolerances().NearMissAbsFloorEUR)
}
