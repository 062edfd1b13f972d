package discord

import (
	"reflect"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestParseTextCommand(t *testing.T) {
	tests := []struct {
		content  string
		prefix   string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"!ping", "!", "ping", []string{}, true},
		{"!PING", "!", "ping", []string{}, true},
		{"!warn <@1>   2 spam  links", "!", "warn", []string{"<@1>", "2", "spam", "links"}, true},
		{"! ping", "!", "ping", []string{}, true},
		{"ping", "!", "", nil, false},
		{"!", "!", "", nil, false},
		{"!ping", "", "", nil, false},
		{"pm!ping", "pm!", "ping", []string{}, true},
	}

	for _, tt := range tests {
		name, args, ok := ParseTextCommand(tt.content, tt.prefix)
		if ok != tt.wantOK || name != tt.wantName {
			t.Errorf("ParseTextCommand(%q, %q) = %q, %v; want %q, %v", tt.content, tt.prefix, name, ok, tt.wantName, tt.wantOK)
			continue
		}
		if ok && !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("ParseTextCommand(%q) args = %#v, want %#v", tt.content, args, tt.wantArgs)
		}
	}
}

func opt(t discordgo.ApplicationCommandOptionType, name string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: t, Name: name}
}

func TestBindTextArgs(t *testing.T) {
	warnOpts := []*discordgo.ApplicationCommandOption{
		opt(discordgo.ApplicationCommandOptionUser, "user"),
		opt(discordgo.ApplicationCommandOptionInteger, "count"),
		opt(discordgo.ApplicationCommandOptionString, "reason"),
	}
	timeoutOpts := []*discordgo.ApplicationCommandOption{
		opt(discordgo.ApplicationCommandOptionUser, "user"),
		opt(discordgo.ApplicationCommandOptionString, "duration"),
		opt(discordgo.ApplicationCommandOptionString, "reason"),
	}
	amountOpts := []*discordgo.ApplicationCommandOption{
		opt(discordgo.ApplicationCommandOptionNumber, "amount"),
		opt(discordgo.ApplicationCommandOptionString, "note"),
	}
	scanOpts := []*discordgo.ApplicationCommandOption{
		opt(discordgo.ApplicationCommandOptionAttachment, "file"),
	}

	tests := []struct {
		name    string
		options []*discordgo.ApplicationCommandOption
		args    []string
		want    map[string]string
	}{
		{
			"all warn args",
			warnOpts,
			[]string{"<@1>", "2", "spam", "links"},
			map[string]string{"user": "<@1>", "count": "2", "reason": "spam links"},
		},
		{
			"count skipped when not a number",
			warnOpts,
			[]string{"<@1>", "spam"},
			map[string]string{"user": "<@1>", "reason": "spam"},
		},
		{
			"fractional count falls into reason",
			warnOpts,
			[]string{"<@1>", "2.5", "spam"},
			map[string]string{"user": "<@1>", "reason": "2.5 spam"},
		},
		{
			"inf count falls into reason",
			warnOpts,
			[]string{"<@1>", "inf", "spam"},
			map[string]string{"user": "<@1>", "reason": "inf spam"},
		},
		{
			"NaN count falls into reason",
			warnOpts,
			[]string{"<@1>", "NaN"},
			map[string]string{"user": "<@1>", "reason": "NaN"},
		},
		{
			"number takes a fraction",
			amountOpts,
			[]string{"2.5", "ok"},
			map[string]string{"amount": "2.5", "note": "ok"},
		},
		{
			"number rejects NaN",
			amountOpts,
			[]string{"NaN"},
			map[string]string{"note": "NaN"},
		},
		{
			"user only",
			warnOpts,
			[]string{"<@1>"},
			map[string]string{"user": "<@1>"},
		},
		{
			"middle string takes one token",
			timeoutOpts,
			[]string{"<@1>", "10분", "too", "loud"},
			map[string]string{"user": "<@1>", "duration": "10분", "reason": "too loud"},
		},
		{
			"attachment consumes nothing",
			scanOpts,
			[]string{"extra"},
			map[string]string{},
		},
		{
			"no args",
			warnOpts,
			nil,
			map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bindTextArgs(tt.options, tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("bindTextArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"<@123>", "123", true},
		{"<@!123>", "123", true},
		{"123", "123", true},
		{"<@&123>", "", false},
		{"someone", "", false},
		{"<@>", "", false},
	}

	for _, tt := range tests {
		got, ok := parseUserID(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseUserID(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
