package telegram

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/oklog/run"
	"gopkg.in/tucnak/telebot.v2"

	"github.com/cbrgm/mtg-bot/display"
	"github.com/cbrgm/mtg-bot/metrics"
	"github.com/cbrgm/mtg-bot/mtgio"
)

const (
	// default
	CmdStart = "/start"
	CmdStop  = "/stop"
	CmdHelp  = "/help"
	CmdAbout = "/about"
	CmdCard  = "/card"

	// debug
	CmdID = "/id"
)

const (
	responseStart = "Hi, %s! 👋 Check out " + CmdHelp + " for further details.\n You can share card information from everywhere by simply typing @mtg_bot followed by an exact card name in your chat window.\nData is provided by https://magicthegathering.io."
	responseStop  = "Alright, %s! I won't talk to you again 🙊. Check out " + CmdHelp + " for further details."
	responseHelp  = `
I'm a Magic: The Gathering Bot 🤖 for Telegram. I will send you card information directly into your telegram channels!
You can find out more about me using ` + CmdAbout + `

You can share card information from everywhere by simply typing @mtg_bot followed by an exact card name in your chat window.

👇 Available commands:
` + CmdStart + ` - Say hello!
` + CmdStop + ` - Say Goodbye!'.
` + CmdCard + ` - Sends you a card by its multiverse id, e.g. ` + CmdCard + ` 386616.
` + CmdID + ` - Sends you your Telegram ID (works for all users!).
`
	responseAbout = `
This Telegram Bot is a non-commercial hobby project by @cbrgm and is developed as open source software for fans of Magic: The Gathering!

Feedback of any kind is very welcome and can be given in the Github repository at https://github.com/cbrgm/mtg-bot

The data of this bot is provided by the public API at https://magicthegathering.io.

This Bot is in no way affiliated with Wizards of the Coast®. Magic: The Gathering™, card names, card text,
and set names are property of Wizards of the Coast®.
`
)

// Cards is the card catalog surface the bot depends on.
type Cards interface {
	CardByID(ctx context.Context, id string) (mtgio.SingleCard, error)
	CardsByName(ctx context.Context, name string) (mtgio.CardList, error)
}

type Telebot interface {
	Start()
	Stop()
	Send(to telebot.Recipient, what interface{}, options ...interface{}) (*telebot.Message, error)
	Answer(query *telebot.Query, resp *telebot.QueryResponse) error
	Handle(endpoint interface{}, handler interface{})
}

type BotMetrics interface {
	IncTelegramCommands(cmd string)
	IncTelegramEventsIncoming(eventType string)
	IncTelegramEventsOutgoing(eventType string)
	RegisterHandler(path string, handler *http.ServeMux)
}

// Bot represents the telegram bot
type Bot struct {
	logger    log.Logger
	startTime time.Time
	revision  string
	cards     Cards
	metrics   BotMetrics
	telegram  Telebot

	allowlist []int
}

// BotOption passed to NewBot to change the default instance.
type BotOption func(b *Bot) error

func NewBot(cards Cards, token string, opts ...BotOption) (*Bot, error) {
	poller := &telebot.LongPoller{
		Timeout: 10 * time.Second,
	}
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	prom := metrics.NewDefaultPrometheus()
	return NewBotWithTelegram(cards, bot, prom, opts...)
}

func NewBotWithTelegram(cards Cards, bot Telebot, botMetrics BotMetrics, opts ...BotOption) (*Bot, error) {
	b := &Bot{
		logger:    log.NewNopLogger(),
		startTime: time.Now(),
		revision:  "",
		cards:     cards,
		metrics:   botMetrics,
		telegram:  bot,

		allowlist: []int{},
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// WithLogger sets the logger for the Bot as an option.
func WithLogger(l log.Logger) BotOption {
	return func(b *Bot) error {
		b.logger = l
		return nil
	}
}

func WithAllowlist(ids ...int) BotOption {
	return func(b *Bot) error {
		b.allowlist = append(b.allowlist, ids...)
		sort.Ints(b.allowlist)
		return nil
	}
}

func WithMetrics(m BotMetrics) BotOption {
	return func(b *Bot) error {
		b.metrics = m
		return nil
	}
}

func WithStartTime(t time.Time) BotOption {
	return func(b *Bot) error {
		b.startTime = t
		return nil
	}
}

func WithRevision(s string) BotOption {
	return func(b *Bot) error {
		b.revision = s
		return nil
	}
}

func (b *Bot) middleware(next func(*telebot.Message) error) func(*telebot.Message) {
	return func(m *telebot.Message) {
		b.metrics.IncTelegramEventsIncoming(metrics.TelegramMessageEventType)

		if m.IsService() || m.Sender.IsBot {
			return
		}

		if !b.isOnAllowlist(int(m.Sender.ID)) && m.Text != CmdID {
			level.Info(b.logger).Log(
				"msg", "received message from forbidden sender",
				"sender_id", m.Sender.ID,
				"sender_username", m.Sender.Username,
			)
			return
		}

		command := strings.Split(m.Text, " ")[0]
		b.metrics.IncTelegramCommands(command)

		level.Debug(b.logger).Log("msg", "received message", "text", m.Text)
		err := next(m)
		if err != nil {
			level.Warn(b.logger).Log("msg", "failed to handle bot command", "err", err)
			return
		}

		b.metrics.IncTelegramEventsOutgoing(metrics.TelegramMessageEventType)
	}
}

func (b *Bot) queryMiddleware(next func(query *telebot.Query) error) func(query *telebot.Query) {
	return func(m *telebot.Query) {
		b.metrics.IncTelegramEventsIncoming(metrics.TelegramInlineQueryEventType)

		if m.From.IsBot || len(m.Text) <= 3 {
			return
		}

		if !b.isOnAllowlist(int(m.From.ID)) && m.Text != CmdID {
			level.Info(b.logger).Log(
				"msg", "received message from forbidden sender",
				"sender_id", m.From.ID,
				"sender_username", m.From.Username,
			)
			return
		}

		level.Debug(b.logger).Log("msg", "received message", "text", m.Text)

		err := next(m)
		if err != nil {
			level.Warn(b.logger).Log("msg", "failed to handle inline query", "err", err)
			return
		}

		b.metrics.IncTelegramEventsOutgoing(metrics.TelegramInlineQueryEventType)
	}
}

// isOnAllowlist checks whether the id of a telegram user is listed on the allowlist
// returns true if Bot.allowlist is empty (e.g. all users are allowed) or the id was found on the list
func (b *Bot) isOnAllowlist(id int) bool {
	if len(b.allowlist) == 0 {
		return true
	}
	i := sort.SearchInts(b.allowlist, id)
	return i < len(b.allowlist) && b.allowlist[i] == id
}

// Run runs the bot, starting all goroutines
func (b *Bot) Run(ctx context.Context) error {
	b.telegram.Handle(CmdStart, b.middleware(b.handleStart))
	b.telegram.Handle(CmdStop, b.middleware(b.handleStop))
	b.telegram.Handle(CmdHelp, b.middleware(b.handleHelp))
	b.telegram.Handle(CmdAbout, b.middleware(b.handleAbout))
	b.telegram.Handle(CmdCard, b.middleware(b.handleCard))
	b.telegram.Handle(CmdID, b.middleware(b.handleID))

	// handle inline commands
	b.telegram.Handle(telebot.OnQuery, b.queryMiddleware(b.handleOnQuery))

	var gr run.Group
	{
		gr.Add(func() error {
			b.telegram.Start()
			return nil
		}, func(err error) {
			b.telegram.Stop()
		})
	}
	return gr.Run()
}

func (b *Bot) handleStart(message *telebot.Message) error {
	level.Info(b.logger).Log(
		"msg", "user executed start command",
		"username", message.Sender.Username,
		"user_id", message.Sender.ID,
	)

	_, err := b.telegram.Send(message.Sender, fmt.Sprintf(responseStart, message.Sender.FirstName))
	return err
}

func (b *Bot) handleStop(message *telebot.Message) error {
	level.Info(b.logger).Log(
		"msg", "user executed stop command",
		"username", message.Sender.Username,
		"user_id", message.Sender.ID,
	)

	_, err := b.telegram.Send(message.Sender, fmt.Sprintf(responseStop, message.Sender.FirstName))
	return err
}

func (b *Bot) handleHelp(message *telebot.Message) error {
	level.Info(b.logger).Log(
		"msg", "user executed help command",
		"username", message.Sender.Username,
		"user_id", message.Sender.ID,
	)
	_, err := b.telegram.Send(message.Chat, responseHelp)
	return err
}

func (b *Bot) handleAbout(message *telebot.Message) error {
	level.Info(b.logger).Log(
		"msg", "user executed about command",
		"username", message.Sender.Username,
		"user_id", message.Sender.ID,
	)
	_, err := b.telegram.Send(message.Chat, responseAbout)
	return err
}

// handleCard looks up a single card by its multiverse id and sends the
// rendered card text.
func (b *Bot) handleCard(message *telebot.Message) error {
	level.Info(b.logger).Log(
		"msg", "user executed card command",
		"username", message.Sender.Username,
		"user_id", message.Sender.ID,
	)

	id := strings.TrimSpace(message.Payload)
	if id == "" {
		_, err := b.telegram.Send(message.Chat, "Usage: "+CmdCard+" <multiverse id>")
		return err
	}

	result, err := b.cards.CardByID(context.Background(), id)
	if err != nil {
		level.Warn(b.logger).Log(
			"msg", "failed to fetch card",
			"from", message.Sender.ID,
			"id", id,
			"err", err,
		)
		_, sendErr := b.telegram.Send(message.Chat, fmt.Sprintf("Sorry, I couldn't find card %s: %v", id, err))
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	_, err = b.telegram.Send(message.Chat, display.Card(result.Card))
	return err
}

func (b *Bot) handleOnQuery(q *telebot.Query) error {
	list, err := b.cards.CardsByName(context.Background(), q.Text)
	if err != nil {
		level.Warn(b.logger).Log(
			"msg", "failed to query cards",
			"from", q.From.ID,
			"query", q.Text,
			"err", err,
		)
		return err
	}

	results := make(telebot.Results, len(list.Cards))
	for i, card := range list.Cards {
		result := &telebot.ArticleResult{
			Title:       card.Name,
			Description: card.Type,
			Text:        display.Card(card),
		}

		results[i] = result
		results[i].SetResultID(strconv.Itoa(i))
	}

	err = b.telegram.Answer(q, &telebot.QueryResponse{
		Results:   results,
		CacheTime: 60,
	})
	if err != nil {
		level.Warn(b.logger).Log(
			"msg", "failed to send query response",
			"from", q.From.ID,
			"query", q.Text,
			"err", err,
		)
		return err
	}
	return err
}

func (b *Bot) handleID(message *telebot.Message) error {
	level.Info(b.logger).Log(
		"msg", "user executed id command",
		"username", message.Sender.Username,
		"user_id", message.Sender.ID,
	)

	if message.Private() {
		_, err := b.telegram.Send(message.Chat, fmt.Sprintf("Your user id is %d", message.Sender.ID))
		return err
	}
	return nil
}
