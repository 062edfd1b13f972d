// Package discordtest provides an in-memory discord.Platform for tests.
package discordtest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Message is a message sent through the fake
type Message struct {
	ID        string
	ChannelID string
	Content   string
	Files     []*discordgo.File
	Embeds    []*discordgo.MessageEmbed
	Reference *discordgo.MessageReference
}

// Ban records a GuildBanCreateWithReason call
type Ban struct {
	GuildID string
	UserID  string
	Reason  string
	Days    int
}

// Timeout records a GuildMemberTimeout call
type Timeout struct {
	GuildID     string
	UserID      string
	Until       *time.Time
	AuditReason string
}

// RoleAdd records a GuildMemberRoleAdd call
type RoleAdd struct {
	GuildID string
	UserID  string
	RoleID  string
}

// Overwrite records an ApplicationCommandBulkOverwrite call
type Overwrite struct {
	AppID    string
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

// Platform records every call. Set the Fail* fields to make a call fail.
type Platform struct {
	mu sync.Mutex

	Now func() time.Time

	Users map[string]*discordgo.User
	Roles map[string][]*discordgo.Role

	Messages     []Message
	Edits        []Message
	Responses    []*discordgo.InteractionResponse
	InteractionE []*discordgo.WebhookEdit
	DMs          map[string][]string
	Bans         []Ban
	Timeouts     []Timeout
	RoleAdds     []RoleAdd
	Overwrites   []Overwrite

	FailSend      error
	FailDM        error
	FailBan       error
	FailTimeout   error
	FailRoleAdd   error
	FailRoles     error
	FailOverwrite error

	nextID int
}

// New creates an empty fake
func New() *Platform {
	return &Platform{
		Now:   time.Now,
		Users: make(map[string]*discordgo.User),
		Roles: make(map[string][]*discordgo.Role),
		DMs:   make(map[string][]string),
	}
}

// AddUser makes a user resolvable through User
func (p *Platform) AddUser(u *discordgo.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Users[u.ID] = u
}

func (p *Platform) newMessage(channelID, content string) *discordgo.Message {
	p.nextID++
	return &discordgo.Message{
		ID:        strconv.Itoa(p.nextID),
		ChannelID: channelID,
		Content:   content,
		Timestamp: p.Now(),
	}
}

func (p *Platform) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return p.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (p *Platform) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dmUser, ok := dmRecipient(channelID); ok {
		if p.FailDM != nil {
			return nil, p.FailDM
		}
		p.DMs[dmUser] = append(p.DMs[dmUser], data.Content)
		return p.newMessage(channelID, data.Content), nil
	}

	if p.FailSend != nil {
		return nil, p.FailSend
	}
	msg := p.newMessage(channelID, data.Content)
	p.Messages = append(p.Messages, Message{
		ID:        msg.ID,
		ChannelID: channelID,
		Content:   data.Content,
		Files:     data.Files,
		Embeds:    data.Embeds,
		Reference: data.Reference,
	})
	return msg, nil
}

func (p *Platform) ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return p.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content, Reference: reference})
}

func (p *Platform) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailSend != nil {
		return nil, p.FailSend
	}
	content := ""
	if m.Content != nil {
		content = *m.Content
	}
	p.Edits = append(p.Edits, Message{ID: m.ID, ChannelID: m.Channel, Content: content, Files: m.Files})
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel, Content: content, Timestamp: p.Now()}, nil
}

func (p *Platform) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailSend != nil {
		return p.FailSend
	}
	p.Responses = append(p.Responses, resp)
	return nil
}

func (p *Platform) InteractionResponse(i *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	content := ""
	if n := len(p.Responses); n > 0 && p.Responses[n-1].Data != nil {
		content = p.Responses[n-1].Data.Content
	}
	return p.newMessage(i.ChannelID, content), nil
}

func (p *Platform) InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailSend != nil {
		return nil, p.FailSend
	}
	p.InteractionE = append(p.InteractionE, edit)
	content := ""
	if edit.Content != nil {
		content = *edit.Content
	}
	p.Edits = append(p.Edits, Message{ChannelID: i.ChannelID, Content: content, Files: edit.Files})
	return p.newMessage(i.ChannelID, content), nil
}

func (p *Platform) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u, ok := p.Users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("unknown user %s", userID)
}

func (p *Platform) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailDM != nil {
		return nil, p.FailDM
	}
	return &discordgo.Channel{ID: "dm:" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (p *Platform) GuildBanCreateWithReason(guildID, userID, reason string, days int, _ ...discordgo.RequestOption) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Bans = append(p.Bans, Ban{GuildID: guildID, UserID: userID, Reason: reason, Days: days})
	return p.FailBan
}

func (p *Platform) GuildMemberTimeout(guildID string, userID string, until *time.Time, options ...discordgo.RequestOption) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailTimeout != nil {
		return p.FailTimeout
	}
	p.Timeouts = append(p.Timeouts, Timeout{
		GuildID:     guildID,
		UserID:      userID,
		Until:       until,
		AuditReason: auditReason(options),
	})
	return nil
}

func (p *Platform) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailRoleAdd != nil {
		return p.FailRoleAdd
	}
	p.RoleAdds = append(p.RoleAdds, RoleAdd{GuildID: guildID, UserID: userID, RoleID: roleID})
	return nil
}

func (p *Platform) GuildRoles(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailRoles != nil {
		return nil, p.FailRoles
	}
	return p.Roles[guildID], nil
}

func (p *Platform) ApplicationCommands(appID, guildID string, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := len(p.Overwrites) - 1; i >= 0; i-- {
		if p.Overwrites[i].AppID == appID && p.Overwrites[i].GuildID == guildID {
			return p.Overwrites[i].Commands, nil
		}
	}
	return nil, nil
}

func (p *Platform) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailOverwrite != nil {
		return nil, p.FailOverwrite
	}
	p.Overwrites = append(p.Overwrites, Overwrite{AppID: appID, GuildID: guildID, Commands: commands})
	return commands, nil
}

// LastContent returns the content of the latest reply or edit
func (p *Platform) LastContent() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.Edits); n > 0 {
		return p.Edits[n-1].Content
	}
	if n := len(p.Responses); n > 0 && p.Responses[n-1].Data != nil {
		return p.Responses[n-1].Data.Content
	}
	if n := len(p.Messages); n > 0 {
		return p.Messages[n-1].Content
	}
	return ""
}

func dmRecipient(channelID string) (string, bool) {
	const prefix = "dm:"
	if len(channelID) > len(prefix) && channelID[:len(prefix)] == prefix {
		return channelID[len(prefix):], true
	}
	return "", false
}

// auditReason reads the X-Audit-Log-Reason header the options would set
func auditReason(options []discordgo.RequestOption) string {
	if len(options) == 0 {
		return ""
	}
	req, _ := http.NewRequest(http.MethodPatch, "http://discord.invalid", nil)
	cfg := &discordgo.RequestConfig{Request: req}
	for _, opt := range options {
		opt(cfg)
	}
	reason, err := url.PathUnescape(req.Header.Get("X-Audit-Log-Reason"))
	if err != nil {
		return req.Header.Get("X-Audit-Log-Reason")
	}
	return reason
}
