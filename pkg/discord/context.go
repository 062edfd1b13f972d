package discord

import (
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CommandContext is what a command sees of its invocation. It hides whether
// the command came from a slash interaction or a prefixed text message.
type CommandContext struct {
	Platform    Platform
	Interaction *discordgo.Interaction
	Message     *discordgo.Message
	Command     *Command
	Client      *ExtendedClient

	// Args holds the raw text arguments. Empty for slash commands.
	Args []string
	// Permissions is the caller's permission bitmask in the invoking channel
	Permissions int64

	textOptions map[string]string
	reply       *discordgo.Message
	replied     bool
}

// NewInteractionContext creates a context for a slash interaction
func NewInteractionContext(p Platform, i *discordgo.Interaction, cmd *Command) *CommandContext {
	ctx := &CommandContext{
		Platform:    p,
		Interaction: i,
		Command:     cmd,
	}
	if i.Member != nil {
		ctx.Permissions = i.Member.Permissions
	}
	return ctx
}

// NewMessageContext creates a context for a prefixed text command and binds
// args to the command options
func NewMessageContext(p Platform, m *discordgo.Message, cmd *Command, args []string, permissions int64) *CommandContext {
	ctx := &CommandContext{
		Platform:    p,
		Message:     m,
		Command:     cmd,
		Args:        args,
		Permissions: permissions,
	}
	if cmd != nil {
		ctx.textOptions = bindTextArgs(cmd.Options, args)
	}
	return ctx
}

// IsSlash reports whether the command came from an interaction
func (ctx *CommandContext) IsSlash() bool {
	return ctx.Interaction != nil
}

// Replied reports whether a reply was already sent
func (ctx *CommandContext) Replied() bool {
	return ctx.replied
}

// HasPermission reports whether the caller holds perm
func (ctx *CommandContext) HasPermission(perm int64) bool {
	if ctx.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return ctx.Permissions&perm == perm
}

// Reply sends a reply to the invocation
func (ctx *CommandContext) Reply(content string) error {
	_, err := ctx.send(&discordgo.MessageSend{Content: content}, false)
	return err
}

// ReplyMessage sends a reply and returns the sent message
func (ctx *CommandContext) ReplyMessage(content string) (*discordgo.Message, error) {
	return ctx.send(&discordgo.MessageSend{Content: content}, false)
}

// ReplyEmbed sends an embed reply
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	_, err := ctx.send(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}, false)
	return err
}

// ReplyEphemeral sends a reply visible only to the caller. Text commands
// cannot hide messages, so they get a normal reply.
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	_, err := ctx.send(&discordgo.MessageSend{Content: content}, true)
	return err
}

// ReplyWithFiles sends a reply with attached files
func (ctx *CommandContext) ReplyWithFiles(content string, files ...*discordgo.File) error {
	_, err := ctx.send(&discordgo.MessageSend{Content: content, Files: files}, false)
	return err
}

func (ctx *CommandContext) send(data *discordgo.MessageSend, ephemeral bool) (*discordgo.Message, error) {
	if ctx.IsSlash() {
		resp := &discordgo.InteractionResponseData{
			Content: data.Content,
			Embeds:  data.Embeds,
			Files:   data.Files,
		}
		if ephemeral {
			resp.Flags = discordgo.MessageFlagsEphemeral
		}
		err := ctx.Platform.InteractionRespond(ctx.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: resp,
		})
		if err != nil {
			return nil, err
		}
		ctx.replied = true

		msg, err := ctx.Platform.InteractionResponse(ctx.Interaction)
		if err != nil {
			return nil, err
		}
		ctx.reply = msg
		return msg, nil
	}

	data.Reference = ctx.Message.Reference()
	msg, err := ctx.Platform.ChannelMessageSendComplex(ctx.Message.ChannelID, data)
	if err != nil {
		return nil, err
	}
	ctx.replied = true
	ctx.reply = msg
	return msg, nil
}

// EditReply replaces the content of the previous reply, or replies if there
// is none yet
func (ctx *CommandContext) EditReply(content string) error {
	return ctx.EditReplyWithFiles(content)
}

// EditReplyWithFiles replaces the content of the previous reply and attaches files
func (ctx *CommandContext) EditReplyWithFiles(content string, files ...*discordgo.File) error {
	if !ctx.replied {
		return ctx.ReplyWithFiles(content, files...)
	}

	if ctx.IsSlash() {
		msg, err := ctx.Platform.InteractionResponseEdit(ctx.Interaction, &discordgo.WebhookEdit{
			Content: &content,
			Files:   files,
		})
		if err == nil {
			ctx.reply = msg
		}
		return err
	}

	edit := discordgo.NewMessageEdit(ctx.reply.ChannelID, ctx.reply.ID).SetContent(content)
	edit.Files = files
	msg, err := ctx.Platform.ChannelMessageEditComplex(edit)
	if err == nil {
		ctx.reply = msg
	}
	return err
}

// SendDM sends a direct message to a user
func (ctx *CommandContext) SendDM(userID, content string) error {
	channel, err := ctx.Platform.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = ctx.Platform.ChannelMessageSend(channel.ID, content)
	return err
}

// GetOption retrieves a slash option by name. Always nil for text commands.
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	if !ctx.IsSlash() {
		return nil
	}
	return findOption(ctx.Interaction.ApplicationCommandData().Options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// HasOption reports whether the caller supplied the option
func (ctx *CommandContext) HasOption(name string) bool {
	if ctx.IsSlash() {
		return ctx.GetOption(name) != nil
	}
	_, ok := ctx.textOptions[name]
	return ok
}

// GetStringOption retrieves a string option value
func (ctx *CommandContext) GetStringOption(name string) string {
	if !ctx.IsSlash() {
		return ctx.textOptions[name]
	}
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

// GetIntOption retrieves an integer option value
func (ctx *CommandContext) GetIntOption(name string) int64 {
	if !ctx.IsSlash() {
		n, _ := strconv.ParseInt(ctx.textOptions[name], 10, 64)
		return n
	}
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0
	}
	return opt.IntValue()
}

// GetUserOption resolves a user option. Returns nil when the option is
// missing or the user cannot be found.
func (ctx *CommandContext) GetUserOption(name string) *discordgo.User {
	var id string
	if ctx.IsSlash() {
		opt := ctx.GetOption(name)
		if opt == nil {
			return nil
		}
		id, _ = opt.Value.(string)
		if resolved := ctx.Interaction.ApplicationCommandData().Resolved; resolved != nil {
			if u, ok := resolved.Users[id]; ok {
				return u
			}
		}
	} else {
		raw, ok := ctx.textOptions[name]
		if !ok {
			return nil
		}
		id, ok = parseUserID(raw)
		if !ok {
			return nil
		}
		for _, u := range ctx.Message.Mentions {
			if u.ID == id {
				return u
			}
		}
	}

	if id == "" {
		return nil
	}
	u, err := ctx.Platform.User(id)
	if err != nil {
		return nil
	}
	return u
}

// GetAttachment returns the attachment bound to an option. For text commands
// this is the first attachment of the message.
func (ctx *CommandContext) GetAttachment(name string) *discordgo.MessageAttachment {
	if !ctx.IsSlash() {
		if len(ctx.Message.Attachments) == 0 {
			return nil
		}
		return ctx.Message.Attachments[0]
	}

	opt := ctx.GetOption(name)
	if opt == nil {
		return nil
	}
	id, _ := opt.Value.(string)
	resolved := ctx.Interaction.ApplicationCommandData().Resolved
	if resolved == nil {
		return nil
	}
	return resolved.Attachments[id]
}

// User returns the user who triggered the command
func (ctx *CommandContext) User() *discordgo.User {
	if ctx.IsSlash() {
		if ctx.Interaction.Member != nil {
			return ctx.Interaction.Member.User
		}
		return ctx.Interaction.User
	}
	return ctx.Message.Author
}

// Member returns the guild member who triggered the command, nil in DMs
func (ctx *CommandContext) Member() *discordgo.Member {
	if ctx.IsSlash() {
		return ctx.Interaction.Member
	}
	return ctx.Message.Member
}

// GuildID returns the guild where the command was used
func (ctx *CommandContext) GuildID() string {
	if ctx.IsSlash() {
		return ctx.Interaction.GuildID
	}
	return ctx.Message.GuildID
}

// ChannelID returns the channel where the command was used
func (ctx *CommandContext) ChannelID() string {
	if ctx.IsSlash() {
		return ctx.Interaction.ChannelID
	}
	return ctx.Message.ChannelID
}

// CreatedAt returns when the triggering event was created
func (ctx *CommandContext) CreatedAt() time.Time {
	if ctx.IsSlash() {
		t, _ := discordgo.SnowflakeTimestamp(ctx.Interaction.ID)
		return t
	}
	return ctx.Message.Timestamp
}

// Guild returns the cached guild, nil when the state has none
func (ctx *CommandContext) Guild() *discordgo.Guild {
	if ctx.Client == nil || ctx.Client.Session == nil || ctx.GuildID() == "" {
		return nil
	}
	guild, _ := ctx.Client.Session.State.Guild(ctx.GuildID())
	return guild
}
