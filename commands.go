package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// commandReply is the body of a slash command response.
type commandReply struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

// CommandHandler answers the /status, /ip, /players and /version slash commands.
type CommandHandler struct {
	servers []ServerConfig
	embed   EmbedConfig
	checker StatusChecker
	players func(server string) PlayerLister
}

func NewCommandHandler(servers []ServerConfig, embed EmbedConfig, checker StatusChecker, players func(server string) PlayerLister) *CommandHandler {
	return &CommandHandler{
		servers: servers,
		embed:   embed,
		checker: checker,
		players: players,
	}
}

// Definitions returns the application commands to register with Discord.
func (h *CommandHandler) Definitions() []*discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(h.servers))
	for i, s := range h.servers {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: s.Name, Value: s.Name}
	}
	serverOption := func(description string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "server",
			Description: description,
			Required:    true,
			Choices:     choices,
		}}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "status",
			Description: "Show server status (online/offline, players, ping)",
			Options:     serverOption("Select which server to check"),
		},
		{
			Name:        "ip",
			Description: "Show the Minecraft server IP address",
			Options:     serverOption("Select which server to show IP for"),
		},
		{
			Name:        "players",
			Description: "List currently online players",
			Options:     serverOption("Select which server to list players from"),
		},
		{
			Name:        "version",
			Description: "Show the current Minecraft server version",
			Options:     serverOption("Select which server to show version info for"),
		},
	}
}

// Reply builds the response to command for the named server.
func (h *CommandHandler) Reply(ctx context.Context, command, serverName string) commandReply {
	server, ok := h.server(serverName)
	if !ok {
		return commandReply{Content: fmt.Sprintf("❓ Unknown server `%s`", serverName)}
	}

	switch command {
	case "ip":
		return commandReply{Content: fmt.Sprintf("📡 **%s**: `%s`", server.Name, server.HostPort())}
	case "status":
		status := h.checker.Check(ctx, server.Address, server.Port)
		// A live check is not tied to the refresh schedule.
		server.Display.ShowNextUpdate = false
		return commandReply{Embed: buildStatusEmbed(server, status, nil, h.embed, time.Now()).Embed}
	case "players":
		return h.playersReply(ctx, server)
	case "version":
		status := h.checker.Check(ctx, server.Address, server.Port)
		if !status.Online {
			return offlineReply(server, status)
		}
		return commandReply{Content: fmt.Sprintf("🏷️ **%s** is running `%s`", server.Name, status.Version)}
	default:
		return commandReply{Content: fmt.Sprintf("❓ Unknown command `/%s`", command)}
	}
}

func (h *CommandHandler) playersReply(ctx context.Context, server ServerConfig) commandReply {
	status := h.checker.Check(ctx, server.Address, server.Port)
	if !status.Online {
		return offlineReply(server, status)
	}

	names := status.PlayerSample
	if lister := h.players(server.Name); lister != nil {
		listed, err := lister.ListPlayers(ctx)
		if err != nil {
			log.Printf("rcon list for %s: %v", server.Name, err)
		} else {
			names = listed
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 **%s**: %d/%d players online", server.Name, status.Players, status.MaxPlayers)
	switch {
	case len(names) > 0:
		b.WriteString("\n" + strings.Join(names, ", "))
		if more := status.Players - len(names); more > 0 {
			fmt.Fprintf(&b, " and %d more", more)
		}
	case status.Players == 0:
		b.WriteString("\nNo players online")
	}
	return commandReply{Content: b.String()}
}

func offlineReply(server ServerConfig, status StatusResult) commandReply {
	return commandReply{Content: fmt.Sprintf("❌ **%s** is offline: %s", server.Name, status.Reason)}
}

func (h *CommandHandler) server(name string) (ServerConfig, bool) {
	for _, s := range h.servers {
		if s.Name == name {
			return s, true
		}
	}
	return ServerConfig{}, false
}
