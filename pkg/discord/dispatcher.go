package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Dispatcher routes text messages and slash interactions to commands
type Dispatcher struct {
	Commands *CommandCollection
	Platform Platform
	Prefix   string
	Client   *ExtendedClient

	// MessagePermissions returns the author's permissions for a text command.
	// Nil means no permissions.
	MessagePermissions func(m *discordgo.Message) int64
}

// NewDispatcher creates a Dispatcher over commands
func NewDispatcher(commands *CommandCollection, platform Platform, prefix string) *Dispatcher {
	return &Dispatcher{
		Commands: commands,
		Platform: platform,
		Prefix:   prefix,
	}
}

// DispatchMessage runs the text command carried by m, if any. It reports
// whether a command was found.
func (d *Dispatcher) DispatchMessage(m *discordgo.Message) bool {
	if m.Author == nil || m.Author.Bot {
		return false
	}

	name, args, ok := ParseTextCommand(m.Content, d.Prefix)
	if !ok {
		return false
	}

	cmd, ok := d.Commands.Get(name)
	if !ok {
		return false
	}

	var perms int64
	if d.MessagePermissions != nil {
		perms = d.MessagePermissions(m)
	}

	ctx := NewMessageContext(d.Platform, m, cmd, args, perms)
	ctx.Client = d.Client
	_ = d.Execute(ctx)
	return true
}

// DispatchInteraction runs the slash command carried by i, if any. Other
// interaction types are ignored.
func (d *Dispatcher) DispatchInteraction(i *discordgo.Interaction) bool {
	if i.Type != discordgo.InteractionApplicationCommand {
		return false
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := d.Commands.Get(name)
	if !ok {
		logger.Warn("Comando no encontrado: "+name, "Dispatcher")
		return false
	}

	ctx := NewInteractionContext(d.Platform, i, cmd)
	ctx.Client = d.Client
	_ = d.Execute(ctx)
	return true
}

// Execute runs the command of ctx. Errors and panics stop here: they are
// logged and reported to the caller with a message chosen by error kind.
// The returned error is the handler's, for callers that want to inspect it.
func (d *Dispatcher) Execute(ctx *CommandContext) (err error) {
	err = run(ctx)
	if err == nil {
		return nil
	}

	user := "desconocido"
	if u := ctx.User(); u != nil {
		user = u.ID
	}
	msg := fmt.Sprintf("Error ejecutando %s (usuario %s, %s): %v", ctx.Command.Name, user, errors.KindOf(err), err)
	switch errors.KindOf(err) {
	case errors.KindPermissionDenied, errors.KindInvalidInput:
		logger.Warn(msg, "Dispatcher")
	default:
		logger.Error(msg, "Dispatcher")
	}

	reply := errors.UserMessage(err)
	var replyErr error
	if ctx.Replied() {
		replyErr = ctx.EditReply(reply)
	} else {
		replyErr = ctx.ReplyEphemeral(reply)
	}
	if replyErr != nil {
		logger.Warn(fmt.Sprintf("No se pudo notificar el error de %s: %v", ctx.Command.Name, replyErr), "Dispatcher")
	}
	return err
}

func run(ctx *CommandContext) (err error) {
	defer errors.RecoverInto(&err)
	return ctx.Command.Run(ctx)
}
