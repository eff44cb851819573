package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
)

func TestParticipant(t *testing.T) {
	s := New(catalog.Default())

	rec := s.Participant("Ada Lovelace")
	assert.Equal(t, "Ada Lovelace", rec.Name)
	assert.Equal(t, model.SourceFallback, rec.Source)
	assert.Equal(t, "Professional research needed for Ada Lovelace", rec.ProfileSummary)
	assert.Equal(t, []string{"Experience research required for Ada Lovelace"}, rec.Experience)
	assert.Equal(t, []string{"Education background research needed for Ada Lovelace"}, rec.Education)
	assert.Empty(t, rec.CompanyInfo)
	assert.Empty(t, rec.LinkedInURL)

	assert.Equal(t, rec, s.Participant("Ada Lovelace"))
}

func TestIndustryCurated(t *testing.T) {
	s := New(catalog.Default())

	rec := s.Industry("Edge Computing")
	assert.Equal(t, "Edge Computing", rec.IndustryTag)
	assert.Equal(t, model.SourceFallback, rec.Source)
	assert.NotEmpty(t, rec.CurrentTrends)
	assert.NotEmpty(t, rec.GrowthOpportunities)
	assert.NotEmpty(t, rec.RiskFactors)
	assert.NotEmpty(t, rec.InvestmentOutlook)
}

func TestIndustryGeneric(t *testing.T) {
	s := New(catalog.Default())

	for _, tag := range []string{"Retail", "Unknown Sector"} {
		rec := s.Industry(tag)
		require.Equal(t, tag, rec.IndustryTag)
		assert.Equal(t, []string{"Current trends analysis needed for " + tag}, rec.CurrentTrends)
		assert.Equal(t, []string{"Growth opportunity research required for " + tag}, rec.GrowthOpportunities)
		assert.Equal(t, "Investment outlook research required for "+tag, rec.InvestmentOutlook)
	}
}

func TestIndustryDoesNotShareCatalogSlices(t *testing.T) {
	cat := catalog.Default()
	s := New(cat)

	rec := s.Industry("AI")
	rec.CurrentTrends[0] = "mutated"

	ind, ok := cat.Lookup("AI")
	require.True(t, ok)
	assert.NotEqual(t, "mutated", ind.Fallback.CurrentTrends[0])
}
