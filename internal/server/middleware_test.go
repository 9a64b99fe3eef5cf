package server_test

import (
	"strings"
	"testing"
	"time"
	"virus-server/internal/server"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	limiter := server.NewRateLimiter(5, time.Second)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("conn-1"), "Request %d should be allowed", i)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	limiter := server.NewRateLimiter(3, time.Second)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("conn-1"))
	}
	assert.False(t, limiter.Allow("conn-1"), "Fourth request inside the window should be blocked")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := server.NewRateLimiter(2, 50*time.Millisecond)

	assert.True(t, limiter.Allow("conn-1"))
	assert.True(t, limiter.Allow("conn-1"))
	assert.False(t, limiter.Allow("conn-1"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, limiter.Allow("conn-1"), "Old timestamps should expire out of the window")
}

func TestRateLimiterPerConnection(t *testing.T) {
	limiter := server.NewRateLimiter(1, time.Second)

	assert.True(t, limiter.Allow("conn-1"))
	assert.False(t, limiter.Allow("conn-1"))
	assert.True(t, limiter.Allow("conn-2"), "Other connections keep their own budget")
}

func TestRateLimiterRemoveConnectionResets(t *testing.T) {
	limiter := server.NewRateLimiter(1, time.Hour)

	assert.True(t, limiter.Allow("conn-1"))
	assert.False(t, limiter.Allow("conn-1"))

	limiter.RemoveConnection("conn-1")

	assert.True(t, limiter.Allow("conn-1"))
}

func TestConnectionHealthTracksActivity(t *testing.T) {
	health := server.NewConnectionHealth()

	health.UpdateActivity("conn-1")

	assert.False(t, health.IsInactive("conn-1", time.Minute))
	assert.False(t, health.IsInactive("conn-unknown", time.Minute), "Unknown connections are not inactive")
}

func TestConnectionHealthDetectsInactivity(t *testing.T) {
	health := server.NewConnectionHealth()

	health.UpdateActivity("conn-1")
	time.Sleep(20 * time.Millisecond)
	health.UpdateActivity("conn-2")

	assert.True(t, health.IsInactive("conn-1", 10*time.Millisecond))
	assert.False(t, health.IsInactive("conn-2", time.Minute))

	inactive := health.GetInactiveConnections(10 * time.Millisecond)
	assert.Contains(t, inactive, "conn-1")
	assert.NotContains(t, inactive, "conn-2")
}

func TestConnectionHealthRemove(t *testing.T) {
	health := server.NewConnectionHealth()

	health.UpdateActivity("conn-1")
	health.RemoveConnection("conn-1")

	assert.False(t, health.IsInactive("conn-1", 0))
	assert.Empty(t, health.GetInactiveConnections(0))
}

func TestValidateMessageType(t *testing.T) {
	valid := []string{
		"ping", "create_room", "join_room", "start_game",
		"play_card", "discard_cards", "request_state", "leave_room",
	}
	for _, msgType := range valid {
		assert.NoError(t, server.ValidateMessageType(msgType), "Type %s should be valid", msgType)
	}

	for _, msgType := range []string{"", "PING", "draw_card", "chat"} {
		err := server.ValidateMessageType(msgType)
		assert.ErrorContains(t, err, "INVALID_MESSAGE_TYPE", "Type %q should be rejected", msgType)
	}
}

func TestValidatePlayerName(t *testing.T) {
	assert.NoError(t, server.ValidatePlayerName("Alice"))
	assert.NoError(t, server.ValidatePlayerName("A"))
	assert.NoError(t, server.ValidatePlayerName("12345678901234567890"))

	assert.ErrorContains(t, server.ValidatePlayerName(""), "USERNAME_INVALID")
	assert.ErrorContains(t, server.ValidatePlayerName("123456789012345678901"), "USERNAME_INVALID")
}

func TestValidatePlayerNameCountsRunes(t *testing.T) {
	// 20 multibyte characters is 40 bytes but still a legal name.
	assert.NoError(t, server.ValidatePlayerName(strings.Repeat("ñ", 20)))
	assert.NoError(t, server.ValidatePlayerName("Ángela García-Muñoz"))

	assert.ErrorContains(t, server.ValidatePlayerName(strings.Repeat("ñ", 21)), "USERNAME_INVALID")
}
