package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 7, ParsePage("7"))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, ParseLimit("", 50, 100))
	assert.Equal(t, 50, ParseLimit("junk", 50, 100))
	assert.Equal(t, 50, ParseLimit("0", 50, 100))
	assert.Equal(t, 100, ParseLimit("5000", 50, 100))
	assert.Equal(t, 25, ParseLimit("25", 50, 100))
	assert.Equal(t, 10, ParseLimit("", 10, 50))
}

func TestParseDaysClamps(t *testing.T) {
	assert.Equal(t, 30, ParseDays(""))
	assert.Equal(t, 30, ParseDays("x"))
	assert.Equal(t, 1, ParseDays("0"))
	assert.Equal(t, 1, ParseDays("-10"))
	assert.Equal(t, 365, ParseDays("9999"))
	assert.Equal(t, 90, ParseDays("90"))
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(1, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 5, Pages(30, 7))
}
