package stats

import (
	"testing"

	"wagerledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildStatsEmbed(t *testing.T) {
	stats := &models.GameStats{
		Days:         30,
		TotalGames:   4,
		TotalStaked:  decimal.RequireFromString("40.00"),
		TotalPaidOut: decimal.RequireFromString("29.50"),
		Wins:         1,
		Losses:       3,
	}

	embed := buildStatsEmbed("alice", stats, "TRY")

	assert.Equal(t, "📊 alice's last 30 days", embed.Title)
	assert.Equal(t, 0xE74C3C, embed.Color)
	assert.Equal(t, "25.0%", embed.Fields[1].Value)
	assert.Equal(t, "-10.50 TRY", embed.Fields[5].Value)
}
