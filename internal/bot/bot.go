package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ekzore/tibia-agent/internal/db"
	"github.com/ekzore/tibia-agent/internal/split"
)

const splitMessageCommand = "Split Loot"

type Bot struct {
	session  *discordgo.Session
	splitter *split.Tool
	db       *db.DB // nil when split history is disabled
}

func New(token string, splitter *split.Tool, database *db.DB) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session:  session,
		splitter: splitter,
		db:       database,
	}

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("%s is connected!", event.User.Username)

	// Register commands for all guilds
	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			log.Printf("Failed to register commands for guild %s: %v", guild.ID, err)
		}
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	log.Printf("Guild available/joined: %s (id=%s) — ensuring commands", event.Name, event.ID)
	if err := b.registerGuildCommands(event.ID); err != nil {
		log.Printf("Failed to register commands for guild %s: %v", event.ID, err)
	}
}

func (b *Bot) registerGuildCommands(guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name: splitMessageCommand,
			Type: discordgo.MessageApplicationCommand,
		},
	}

	// Delete existing commands and register new ones
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, commands)
	if err != nil {
		return err
	}

	log.Printf("Registered application commands for guild %s", guildID)
	return nil
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, "!split") {
		return
	}

	dump := strings.TrimSpace(strings.TrimPrefix(content, "!split"))
	if dump == "" {
		s.ChannelMessageSend(m.ChannelID, "Paste the session data after !split, e.g. `!split Session data: ...`")
		return
	}

	b.replySplit(s, m.ChannelID, dump)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != splitMessageCommand {
		return
	}

	// Get the message from the interaction
	if data.Resolved == nil || len(data.Resolved.Messages) == 0 {
		respondText(s, i, "Could not find the message to split.")
		return
	}

	var message *discordgo.Message
	for _, msg := range data.Resolved.Messages {
		message = msg
		break
	}

	result := b.execute(message.Content)
	respondText(s, i, formatResult(result))
}

func (b *Bot) replySplit(s *discordgo.Session, channelID, dump string) {
	result := b.execute(dump)
	for _, chunk := range chunkMessage(formatResult(result)) {
		s.ChannelMessageSend(channelID, chunk)
	}
}

func (b *Bot) execute(dump string) *split.Result {
	result := b.splitter.Execute(dump)
	if b.db != nil {
		if err := b.db.InsertSplit(context.Background(), result); err != nil {
			log.Printf("bot: failed to store split result: %v", err)
		}
	}
	return result
}

func formatResult(res *split.Result) string {
	if !res.Success {
		return "Could not split that session: " + res.Error
	}

	var b strings.Builder
	s := res.Summary
	fmt.Fprintf(&b, "**Session summary** (%d players)\n", len(res.PlayersParsed))
	if s.LootType != "" {
		fmt.Fprintf(&b, "Loot type: %s\n", s.LootType)
	}
	fmt.Fprintf(&b, "Loot: %d | Supplies: %d | Net profit: %d\n", s.TotalLoot, s.TotalSupplies, s.NetProfit)

	if len(res.Transfers) == 0 {
		b.WriteString("\nEveryone is already settled, no transfers needed.\n")
	} else {
		b.WriteString("\n**Transfers**\n")
		for _, t := range res.Transfers {
			fmt.Fprintf(&b, "%s\n", t)
		}
	}

	b.WriteString("\n**Damage / Healing**\n")
	for _, dh := range res.DamageHealing {
		fmt.Fprintf(&b, "%s: %d damage, %d healing\n", dh.Player, dh.Damage, dh.Healing)
	}
	return b.String()
}

// chunkMessage splits content into pieces under Discord's 2000 character
// message limit, breaking on line boundaries.
func chunkMessage(content string) []string {
	if len(content) <= 2000 {
		return []string{content}
	}

	var chunks []string
	var buffer strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if buffer.Len()+len(line)+1 > 2000 {
			chunks = append(chunks, buffer.String())
			buffer.Reset()
		}
		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
	}
	if buffer.Len() > 0 {
		chunks = append(chunks, buffer.String())
	}
	return chunks
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if len(content) > 2000 {
		content = content[:1997] + "..."
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}
