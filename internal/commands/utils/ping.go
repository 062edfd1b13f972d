package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// createPingCommand creates the ping command
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"봇의 응답 속도를 측정합니다.",
		"utils",
		pingHandler,
	).AllowInDM()
}

// pingHandler replies "Pong!" and then edits the reply with the time between
// the triggering event and the reply
func pingHandler(ctx *discord.CommandContext) error {
	sent, err := ctx.ReplyMessage("Pong!")
	if err != nil {
		return err
	}

	latency := sent.Timestamp.Sub(ctx.CreatedAt()).Milliseconds()
	content := fmt.Sprintf("Pong! (지연 시간: %dms)", latency)
	if ctx.Client != nil && ctx.Client.Session != nil {
		content += fmt.Sprintf(" | WebSocket: %dms", ctx.Client.Latency().Milliseconds())
	}
	return ctx.EditReply(content)
}
