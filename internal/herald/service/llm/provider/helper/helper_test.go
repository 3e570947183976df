package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvValue(t *testing.T) {
	t.Setenv("HERALD_TEST_KEY", "secret")

	assert.Equal(t, "secret", ResolveEnvValue("${HERALD_TEST_KEY}"))
	assert.Equal(t, "", ResolveEnvValue("${HERALD_TEST_MISSING}"))
	assert.Equal(t, "literal", ResolveEnvValue("literal"))
}
