package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpt(t *testing.T) {
	t.Run("zero value is missing", func(t *testing.T) {
		var o Opt[string]
		assert.False(t, o.Present())

		v, ok := o.Value()
		assert.False(t, ok)
		assert.Empty(t, v)
		assert.Equal(t, "fallback", o.Or("fallback"))
	})

	t.Run("Some holds the value", func(t *testing.T) {
		o := Some(40.83)
		assert.True(t, o.Present())

		v, ok := o.Value()
		assert.True(t, ok)
		assert.Equal(t, 40.83, v)
		assert.Equal(t, 40.83, o.Or(-9999))
	})

	t.Run("None matches the zero value", func(t *testing.T) {
		assert.Equal(t, None[int](), Opt[int]{})
	})
}

func TestIncidentYear(t *testing.T) {
	t.Run("present date", func(t *testing.T) {
		inc := Incident{OccurDate: Some(time.Date(2019, 7, 4, 0, 0, 0, 0, time.UTC))}
		year, ok := inc.Year()
		assert.True(t, ok)
		assert.Equal(t, 2019, year)
	})

	t.Run("missing date", func(t *testing.T) {
		var inc Incident
		_, ok := inc.Year()
		assert.False(t, ok)
	})
}
