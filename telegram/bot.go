// Package telegram serves a stockbook through a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/etnz/stockbook"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is the Telegram limit on a message text.
const maxMessageLength = 4096

// Bot answers the commands of a single chat.
type Bot struct {
	api      *tgbotapi.BotAPI
	chatID   int64
	book     *stockbook.Book
	currency string
}

// New connects to the Telegram API with 'token'. Only messages from 'chatID' are handled.
func New(token string, chatID int64, book *stockbook.Book, currency string) (*Bot, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("a chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Printf("telegram-bot-authorized user=%q", api.Self.UserName)
	return &Bot{api: api, chatID: chatID, book: book, currency: currency}, nil
}

// Run handles incoming messages until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil {
				continue
			}
			if msg.Chat.ID != b.chatID {
				log.Printf("telegram-unauthorized chat=%d", msg.Chat.ID)
				continue
			}
			// the book is read again so that changes made by other processes are visible.
			b.book.Reload()
			b.send(b.handle(ctx, msg))
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) Reply {
	if msg.Document != nil {
		url, err := b.api.GetFileDirectURL(msg.Document.FileID)
		if err != nil {
			return Reply{Text: fmt.Sprintf("cannot download %s: %v", msg.Document.FileName, err)}
		}
		body, err := fetch(ctx, b.api.Client, url)
		if err != nil {
			return Reply{Text: fmt.Sprintf("cannot download %s: %v", msg.Document.FileName, err)}
		}
		defer body.Close()
		return HandleImport(b.book, body)
	}
	return Handle(b.book, b.currency, msg.Text)
}

// fetch returns the body of 'url', which must answer 200 OK.
func fetch(ctx context.Context, client tgbotapi.HTTPClient, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func (b *Bot) send(r Reply) {
	for _, text := range splitMessage(r.Text, maxMessageLength) {
		if _, err := b.api.Send(tgbotapi.NewMessage(b.chatID, text)); err != nil {
			log.Printf("telegram-send-failed err=%q", err)
		}
	}
	if r.Document != nil {
		doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{Name: stockbook.BackupFilename, Bytes: r.Document})
		if _, err := b.api.Send(doc); err != nil {
			log.Printf("telegram-send-failed file=%q err=%q", stockbook.BackupFilename, err)
		}
	}
}

// splitMessage cuts 'text' into messages of at most 'max' bytes, on line boundaries when possible.
// Long lines are cut between runes.
func splitMessage(text string, max int) []string {
	var res []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > max {
			if cur.Len() > 0 {
				res = append(res, cur.String())
				cur.Reset()
			}
			cut := max
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
			res = append(res, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > max {
			res = append(res, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		res = append(res, cur.String())
	}
	return res
}
