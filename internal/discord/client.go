// Package discord adapts the discordgo session to the panel: it locates or
// creates the two surface messages, performs surface edits, and routes the
// panel's component interactions.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"fragboard/internal/logging"
	"fragboard/internal/panel"
	"fragboard/internal/token"
)

// Client wraps a discordgo session scoped to the panel's channel and its two
// surface messages.
type Client struct {
	session   *discordgo.Session
	channelID string

	toolbarID string
	contentID string

	logger logging.Interface
}

type Options struct {
	// Token is the bot token, without the "Bot " prefix.
	Token string
	// ChannelID is the channel hosting the panel.
	ChannelID string
	Logger    logging.Interface
}

func New(opts Options) (*Client, error) {
	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Client{
		session:   session,
		channelID: opts.ChannelID,
		logger:    opts.Logger,
	}, nil
}

// Open connects to the gateway.
func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("opening gateway connection: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

// EnsureSurfaces locates the two panel messages by their persisted IDs,
// creating whichever is missing, and remembers the result for subsequent
// edits. Returns the definitive IDs for persistence.
func (c *Client) EnsureSurfaces(ctx context.Context, toolbarID, contentID string) (string, string, error) {
	var err error
	if c.toolbarID, err = c.ensureMessage(ctx, toolbarID, "toolbar"); err != nil {
		return "", "", err
	}
	if c.contentID, err = c.ensureMessage(ctx, contentID, "content"); err != nil {
		return "", "", err
	}
	return c.toolbarID, c.contentID, nil
}

func (c *Client) ensureMessage(ctx context.Context, id, surface string) (string, error) {
	if id != "" {
		if _, err := c.session.ChannelMessage(c.channelID, id, discordgo.WithContext(ctx)); err == nil {
			return id, nil
		}
		c.logger.Warn("persisted surface message not found, creating a fresh one",
			"surface", surface, "message_id", id)
	}

	msg, err := c.session.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
		Content: "Setting up the scoreboard…",
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("creating %s surface: %w", surface, err)
	}
	c.logger.Info("created surface message", "surface", surface, "message_id", msg.ID)
	return msg.ID, nil
}

// RegisterHandlers wires the panel's two component handlers, one for button
// clicks and one for select-menu choices, both keyed on the panel's token
// prefix. Everything else falls through untouched.
func (c *Client) RegisterHandlers(buttons, selects func(*discordgo.InteractionCreate)) {
	c.session.AddHandler(func(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		if !token.Matches(data.CustomID) {
			return
		}
		switch data.ComponentType {
		case discordgo.SelectMenuComponent:
			selects(ic)
		default:
			buttons(ic)
		}
	})
}

// EditToolbar overwrites the toolbar surface.
func (c *Client) EditToolbar(ctx context.Context, p panel.Payload) error {
	return c.edit(ctx, c.toolbarID, p)
}

// EditContent overwrites the content surface.
func (c *Client) EditContent(ctx context.Context, p panel.Payload) error {
	return c.edit(ctx, c.contentID, p)
}

func (c *Client) edit(ctx context.Context, messageID string, p panel.Payload) error {
	content := p.Content
	_, err := c.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    c.channelID,
		ID:         messageID,
		Content:    &content,
		Embeds:     &p.Embeds,
		Components: &p.Components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("editing message %s: %w", messageID, err)
	}
	return nil
}

// Ack responds to a component interaction by updating the message it
// originated on, so the user never sees an acknowledged control ahead of its
// surface.
func (c *Client) Ack(ic *discordgo.InteractionCreate, p panel.Payload) error {
	return c.session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    p.Content,
			Embeds:     p.Embeds,
			Components: p.Components,
		},
	})
}

// RespondError sends a short ephemeral apology for a failed interaction.
func (c *Client) RespondError(ic *discordgo.InteractionCreate, msg string) error {
	return c.session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
