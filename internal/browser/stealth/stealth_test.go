package stealth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
)

func TestApplyWithDefaultPersona(t *testing.T) {
	tasks := Apply(schemas.DefaultPersona, zaptest.NewLogger(t))
	assert.NotEmpty(t, tasks)
}

func TestApplyTotalOnEmptyPersona(t *testing.T) {
	assert.NotPanics(t, func() {
		Apply(schemas.Persona{}, zaptest.NewLogger(t))
	})
}

func TestApplySkipsLanguageHeaderWithoutLanguages(t *testing.T) {
	// One fewer task than the default persona: the Accept-Language override
	// is omitted entirely instead of being emitted with a garbage value.
	full := Apply(schemas.DefaultPersona, zaptest.NewLogger(t))
	bare := Apply(schemas.Persona{UserAgent: "ua"}, zaptest.NewLogger(t))
	assert.Len(t, bare, len(full)-1)
}
