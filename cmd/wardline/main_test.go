package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/wardline/wardline/internal/testing/guard"
)

func TestMainSkipsInTestMode(t *testing.T) {
	assert.NotPanics(t, main)
}

func TestSplitRoles(t *testing.T) {
	assert.Equal(t, []string{"lab", "pharmacy"}, splitRoles(" lab, ,pharmacy"))
	assert.Nil(t, splitRoles(""))
}
