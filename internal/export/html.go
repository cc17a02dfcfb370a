package export

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"github.com/fares303/Ai-instagram-message/internal"
)

// HTMLExporter exports a book as a standalone HTML page. Media links point
// into the media tree next to the html directory.
type HTMLExporter struct{}

type htmlMedia struct {
	Kind string
	Path string
}

type htmlMessage struct {
	Time      string
	Sender    string
	Text      string
	Self      bool
	Media     []htmlMedia
	Missing   int
	Share     *internal.SharedContent
	Reactions []internal.Reaction
}

type htmlDay struct {
	Date     string
	Messages []htmlMessage
}

type htmlPage struct {
	Title        string
	Timezone     string
	Participants []string
	Stats        *internal.Summary
	Days         []htmlDay
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; color: #222; }
.stats td { padding: 0.1rem 1rem 0.1rem 0; }
.day { margin-top: 2rem; border-bottom: 1px solid #ddd; color: #666; }
.msg { margin: 0.5rem 0; padding: 0.5rem 0.75rem; border-radius: 0.5rem; background: #f1f1f1; }
.msg.self { background: #dcf1ff; }
.meta { font-size: 0.8rem; color: #666; }
.reactions { font-size: 0.85rem; }
img, video { max-width: 20rem; display: block; margin-top: 0.25rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{range $i, $p := .Participants}}{{if $i}}, {{end}}{{$p}}{{end}} &middot; {{.Timezone}}</p>
{{with .Stats}}
<h2>Statistics</h2>
<table class="stats">
<tr><td>Total messages</td><td>{{.TotalMessages}}</td></tr>
{{range .Senders}}<tr><td>Messages from {{.Key}}</td><td>{{.Count}}</td></tr>
{{end}}<tr><td>Emoji</td><td>{{.EmojiTotal}} ({{.UniqueEmoji}} unique)</td></tr>
<tr><td>Active days</td><td>{{.ActiveDays}}</td></tr>
<tr><td>Duration</td><td>{{.DurationDays}} days</td></tr>
{{if .MostActiveDay}}<tr><td>Most active day</td><td>{{.MostActiveDay}} ({{.MostActiveDayCount}})</td></tr>
{{end}}{{range .PhraseGroups}}<tr><td>{{.Key}} messages</td><td>{{.Count}}</td></tr>
{{end}}{{range .Mentions}}<tr><td>Mentions of {{.Key}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
{{end}}
{{range .Days}}
<h3 class="day">{{.Date}}</h3>
{{range .Messages}}
<div class="msg{{if .Self}} self{{end}}">
<div class="meta">{{.Sender}} &middot; {{.Time}}</div>
{{if .Text}}<div class="text">{{.Text}}</div>{{end}}
{{range .Media}}{{if eq .Kind "photo"}}<img src="{{.Path}}" alt="photo">{{else if eq .Kind "video"}}<video src="{{.Path}}" controls></video>{{else}}<audio src="{{.Path}}" controls></audio>{{end}}
{{end}}{{if .Missing}}<div class="meta">{{.Missing}} attachment(s) not found</div>{{end}}
{{with .Share}}<div class="meta">Shared: {{if .Link}}<a href="{{.Link}}">{{.Link}}</a>{{end}} {{.Text}}</div>{{end}}
{{if .Reactions}}<div class="reactions">{{range .Reactions}}{{.Reaction}} {{.Actor}} {{end}}</div>{{end}}
</div>
{{end}}
{{end}}
</body>
</html>
`))

// Export exports a book to HTML
func (e *HTMLExporter) Export(book *internal.Book, w io.Writer) error {
	loc := location(book)
	media := mediaBySequence(book.Manifest)

	page := htmlPage{
		Title:        title(book),
		Timezone:     loc.String(),
		Participants: book.Conversation.Participants,
		Stats:        book.Stats,
	}

	for i := range book.Conversation.Messages {
		msg := &book.Conversation.Messages[i]
		local := msg.Timestamp.In(loc)
		date := local.Format("Monday, 2 January 2006")
		if len(page.Days) == 0 || page.Days[len(page.Days)-1].Date != date {
			page.Days = append(page.Days, htmlDay{Date: date})
		}

		hm := htmlMessage{
			Time:      local.Format("15:04"),
			Sender:    msg.Sender,
			Text:      msg.Text,
			Self:      book.Self != "" && msg.Sender == book.Self,
			Share:     msg.Share,
			Reactions: msg.Reactions,
		}
		for _, entry := range media[msg.Sequence] {
			hm.Media = append(hm.Media, htmlMedia{
				Kind: string(entry.Kind),
				Path: filepath.ToSlash(filepath.Join("..", entry.Destination)),
			})
		}
		if book.Manifest != nil {
			hm.Missing = len(msg.Attachments) - len(hm.Media)
			if hm.Missing < 0 {
				hm.Missing = 0
			}
		}
		day := &page.Days[len(page.Days)-1]
		day.Messages = append(day.Messages, hm)
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// mediaBySequence maps message sequence numbers to the entries they reference
func mediaBySequence(m *internal.Manifest) map[int][]*internal.MediaEntry {
	out := make(map[int][]*internal.MediaEntry)
	if m == nil {
		return out
	}
	for _, entry := range m.Entries {
		if entry.Status == internal.MediaFailed {
			continue
		}
		for _, seq := range entry.References {
			out[seq] = append(out[seq], entry)
		}
	}
	return out
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}
