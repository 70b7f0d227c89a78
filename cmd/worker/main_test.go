package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/wardline/wardline/internal/testing/guard"
)

func TestMainSkipsInTestMode(t *testing.T) {
	assert.NotPanics(t, main)
}
