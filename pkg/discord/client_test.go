package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestNewClientIntents(t *testing.T) {
	c, err := NewClient("token", "!")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		intent discordgo.Intent
	}{
		{"guilds", discordgo.IntentsGuilds},
		{"guild members", discordgo.IntentsGuildMembers},
		{"guild messages", discordgo.IntentsGuildMessages},
		{"direct messages", discordgo.IntentsDirectMessages},
		{"message content", discordgo.IntentsMessageContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c.Session.Identify.Intents&tt.intent == 0 {
				t.Errorf("intents %b missing %b", c.Session.Identify.Intents, tt.intent)
			}
		})
	}
}
