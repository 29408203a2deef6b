package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCountries(t *testing.T) {
	assert.Equal(t, []string{"GBR", "SGP"}, splitCountries(" gbr, ,sgp "))
	assert.Nil(t, splitCountries(""))
}
