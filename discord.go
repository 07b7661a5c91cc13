package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const commandTimeout = 15 * time.Second

// DiscordBot owns the gateway session. It resolves status channels for the
// Publisher, keeps the bot presence and answers slash commands.
type DiscordBot struct {
	session  *discordgo.Session
	cfg      *Config
	commands *CommandHandler

	mu      sync.Mutex
	ctx     context.Context
	onReady func(ctx context.Context)
}

func NewDiscordBot(token string, cfg *Config, commands *CommandHandler) (*DiscordBot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discordgo session: %w", err)
	}

	b := &DiscordBot{
		session:  session,
		cfg:      cfg,
		commands: commands,
		ctx:      context.Background(),
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	session.AddHandler(b.onReadyEvent)
	session.AddHandler(b.onInteraction)

	return b, nil
}

func (b *DiscordBot) Name() string { return "Discord" }

// OnReady registers fn to run on every Ready event. Discord sends Ready after
// each fresh identify, so fn must be safe to call more than once.
func (b *DiscordBot) OnReady(fn func(ctx context.Context)) {
	b.mu.Lock()
	b.onReady = fn
	b.mu.Unlock()
}

// Start opens the gateway, registers slash commands and blocks until ctx is done.
func (b *DiscordBot) Start(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	defer b.session.Close()

	appID := b.session.State.User.ID
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, b.cfg.Bot.GuildID, b.commands.Definitions()); err != nil {
		log.Printf("register slash commands: %v", err)
	} else {
		log.Printf("registered %d slash commands", len(b.commands.Definitions()))
	}

	<-ctx.Done()
	return nil
}

// ResolveChannel implements ChannelResolver.
func (b *DiscordBot) ResolveChannel(ctx context.Context, channelID string) (MessageTarget, error) {
	if _, err := b.session.State.Channel(channelID); err == nil {
		return &discordTarget{session: b.session, channelID: channelID}, nil
	}
	if _, err := b.session.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return nil, err
	}
	return &discordTarget{session: b.session, channelID: channelID}, nil
}

func (b *DiscordBot) onReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("logged in as %s", r.User.String())

	if err := s.UpdateStatusComplex(presenceData(b.cfg.Bot.Presence)); err != nil {
		log.Printf("update presence: %v", err)
	}

	b.mu.Lock()
	ctx, fn := b.ctx, b.onReady
	b.mu.Unlock()
	if fn != nil {
		fn(ctx)
	}
}

func (b *DiscordBot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	var serverName string
	for _, opt := range data.Options {
		if opt.Name == "server" {
			serverName = opt.StringValue()
		}
	}

	// Live checks can outlast the 3s interaction deadline; acknowledge first.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("acknowledge /%s: %v", data.Name, err)
		return
	}

	b.mu.Lock()
	parent := b.ctx
	b.mu.Unlock()
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()

	reply := b.commands.Reply(ctx, data.Name, serverName)
	edit := &discordgo.WebhookEdit{}
	if reply.Content != "" {
		edit.Content = &reply.Content
	}
	if reply.Embed != nil {
		edit.Embeds = &[]*discordgo.MessageEmbed{reply.Embed}
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Printf("respond to /%s: %v", data.Name, err)
	}
}

func presenceData(p PresenceConfig) discordgo.UpdateStatusData {
	data := discordgo.UpdateStatusData{Status: p.Status}
	for _, a := range p.Activities {
		data.Activities = append(data.Activities, &discordgo.Activity{
			Name: a.Name,
			Type: activityType(a.Type),
		})
	}
	return data
}

func activityType(name string) discordgo.ActivityType {
	switch strings.ToLower(name) {
	case "streaming":
		return discordgo.ActivityTypeStreaming
	case "listening":
		return discordgo.ActivityTypeListening
	case "watching":
		return discordgo.ActivityTypeWatching
	case "competing":
		return discordgo.ActivityTypeCompeting
	default:
		return discordgo.ActivityTypeGame
	}
}

// discordTarget sends and edits status embeds in one channel.
type discordTarget struct {
	session   *discordgo.Session
	channelID string
}

func (t *discordTarget) Send(ctx context.Context, payload Payload) (TrackedMessage, error) {
	msg, err := t.session.ChannelMessageSendComplex(t.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{payload.Embed},
		Files:  payload.Files(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return TrackedMessage{}, fmt.Errorf("send to Discord: %w", err)
	}
	return TrackedMessage{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (t *discordTarget) Edit(ctx context.Context, msg TrackedMessage, payload Payload) error {
	embeds := []*discordgo.MessageEmbed{payload.Embed}
	// Drop the previous chart; the new one, if any, comes in Files.
	attachments := []*discordgo.MessageAttachment{}
	_, err := t.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:          msg.MessageID,
		Channel:     msg.ChannelID,
		Embeds:      &embeds,
		Attachments: &attachments,
		Files:       payload.Files(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit in Discord: %w", err)
	}
	return nil
}
