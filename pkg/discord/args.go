package discord

import (
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ParseTextCommand splits a prefixed message into a lower-cased command name
// and its arguments. It reports false when the content does not carry the
// prefix or the prefix is empty.
func ParseTextCommand(content, prefix string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// bindTextArgs binds positional text arguments to the declared options.
// Integer and boolean options that don't parse are skipped without consuming
// the argument, the last string option takes every remaining argument and
// attachment options never consume text.
func bindTextArgs(options []*discordgo.ApplicationCommandOption, args []string) map[string]string {
	bound := make(map[string]string)
	lastString := -1
	for i, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			lastString = i
		}
	}

	pos := 0
	for i, opt := range options {
		if pos >= len(args) {
			break
		}
		arg := args[pos]

		switch opt.Type {
		case discordgo.ApplicationCommandOptionString:
			if i == lastString {
				bound[opt.Name] = strings.Join(args[pos:], " ")
				pos = len(args)
				continue
			}
			bound[opt.Name] = arg
			pos++
		case discordgo.ApplicationCommandOptionInteger:
			if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
				continue
			}
			bound[opt.Name] = arg
			pos++
		case discordgo.ApplicationCommandOptionNumber:
			f, err := strconv.ParseFloat(arg, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			bound[opt.Name] = arg
			pos++
		case discordgo.ApplicationCommandOptionBoolean:
			if _, err := strconv.ParseBool(arg); err != nil {
				continue
			}
			bound[opt.Name] = arg
			pos++
		case discordgo.ApplicationCommandOptionAttachment:
			continue
		default:
			bound[opt.Name] = arg
			pos++
		}
	}
	return bound
}

// parseUserID accepts <@id>, <@!id> or a raw snowflake
func parseUserID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(strings.TrimSuffix(s[2:], ">"), "!")
	}
	if s == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return "", false
	}
	return s, true
}
