package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
)

func message(ts time.Time) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m-1",
		ChannelID: "c-1",
		GuildID:   "g-1",
		Author:    &discordgo.User{ID: "u-1"},
		Timestamp: ts,
	}
}

func TestPingReportsLatency(t *testing.T) {
	sent := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	fake := discordtest.New()
	fake.Now = func() time.Time { return sent.Add(42 * time.Millisecond) }

	ctx := discord.NewMessageContext(fake, message(sent), createPingCommand(), nil, 0)
	if err := pingHandler(ctx); err != nil {
		t.Fatalf("pingHandler() error = %v", err)
	}

	if len(fake.Messages) != 1 || fake.Messages[0].Content != "Pong!" {
		t.Errorf("first reply = %+v, want Pong!", fake.Messages)
	}
	if got, want := fake.LastContent(), "Pong! (지연 시간: 42ms)"; got != want {
		t.Errorf("edited reply = %q, want %q", got, want)
	}
}

func TestHelpListsCommandsByCategory(t *testing.T) {
	cc := discord.NewCommandCollection()
	deps := Deps{Commands: cc, Prefix: "!"}
	for _, cmd := range Commands(deps) {
		cc.Set(cmd.Name, cmd)
	}
	cc.Set("warn", discord.NewCommand("warn", "경고", "mod", nil))

	fake := discordtest.New()
	ctx := discord.NewMessageContext(fake, message(time.Now()), nil, nil, 0)
	if err := helpHandler(ctx, deps); err != nil {
		t.Fatalf("helpHandler() error = %v", err)
	}

	if len(fake.Messages) != 1 || len(fake.Messages[0].Embeds) != 1 {
		t.Fatalf("expected one embed reply, got %+v", fake.Messages)
	}
	fields := fake.Messages[0].Embeds[0].Fields
	if len(fields) != 2 {
		t.Fatalf("fields = %d, want 2 categories", len(fields))
	}
	if fields[0].Name != categoryNames["mod"] || !strings.Contains(fields[0].Value, "`!warn` - 경고") {
		t.Errorf("mod field = %+v", fields[0])
	}
	if !strings.Contains(fields[1].Value, "`!ping`") {
		t.Errorf("utils field should list ping: %s", fields[1].Value)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0일 0시간 0분 0초"},
		{90 * time.Second, "0일 0시간 1분 30초"},
		{26*time.Hour + 5*time.Minute, "1일 2시간 5분 0초"},
	}

	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestStatsWithoutClient(t *testing.T) {
	fake := discordtest.New()
	ctx := discord.NewMessageContext(fake, message(time.Now()), nil, nil, 0)

	if err := statsHandler(ctx); err != nil {
		t.Fatalf("statsHandler() error = %v", err)
	}
	if len(fake.Messages) != 1 || len(fake.Messages[0].Embeds) != 1 {
		t.Error("stats should reply with an embed")
	}
}
