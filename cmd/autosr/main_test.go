package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

func resetFlags() {
	flags = globalFlags{}
}

func TestEffectiveForce(t *testing.T) {
	defer resetFlags()

	flags = globalFlags{}
	assert.False(t, effectiveForce())

	flags = globalFlags{force: true}
	assert.True(t, effectiveForce())

	flags = globalFlags{noCache: true}
	assert.True(t, effectiveForce())

	flags = globalFlags{force: true, noCache: true}
	assert.True(t, effectiveForce())
}

func TestRequireTopic(t *testing.T) {
	defer resetFlags()

	flags = globalFlags{}
	err := requireTopic()
	assert.Error(t, err)
	assert.Equal(t, xerrors.ConfigError, xerrors.ClassOf(err))

	flags = globalFlags{topic: "discrete audio tokens"}
	assert.NoError(t, requireTopic())
}
