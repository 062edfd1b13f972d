package scan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/discord/discordtest"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/scheduler"
	"github.com/PancyStudios/PancyModGo/pkg/uploads"
	"github.com/PancyStudios/PancyModGo/pkg/virustotal"
	"github.com/bwmarrin/discordgo"
)

type fakeScanner struct {
	submitted []string
	report    *virustotal.Report
	submitErr error
	waitErr   error
}

func (f *fakeScanner) Submit(_ context.Context, path string) (string, error) {
	f.submitted = append(f.submitted, path)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "scan-1", nil
}

func (f *fakeScanner) WaitForReport(_ context.Context, _ string) (*virustotal.Report, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return f.report, nil
}

type recordingPublisher struct {
	events []models.ModerationEvent
}

func (p *recordingPublisher) PublishEvent(ev models.ModerationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type harness struct {
	fake    *discordtest.Platform
	scanner *fakeScanner
	sched   *scheduler.Scheduler
	store   *uploads.Store
	events  *recordingPublisher
	cmd     *discord.Command
	fileURL string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sample.exe" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "MZ not really a binary")
	}))
	t.Cleanup(srv.Close)

	store, err := uploads.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	h := &harness{
		fake: discordtest.New(),
		scanner: &fakeScanner{report: &virustotal.Report{
			ResponseCode: 1,
			Positives:    3,
			Total:        70,
			Permalink:    "https://www.virustotal.com/file/abc/analysis/",
		}},
		sched:   sched,
		store:   store,
		events:  &recordingPublisher{},
		fileURL: srv.URL + "/sample.exe",
	}
	h.cmd = Commands(Deps{
		Scanner:   h.scanner,
		Uploads:   store,
		Scheduler: sched,
		Events:    h.events,
	})[0]
	return h
}

func (h *harness) run(attachments ...*discordgo.MessageAttachment) error {
	msg := &discordgo.Message{
		ID:          "m-1",
		ChannelID:   "c-1",
		GuildID:     "g-1",
		Content:     "!filescan",
		Author:      &discordgo.User{ID: "u-1", Username: "uploader"},
		Attachments: attachments,
	}
	ctx := discord.NewMessageContext(h.fake, msg, h.cmd, nil, 0)
	return h.cmd.Run(ctx)
}

func (h *harness) attachment() *discordgo.MessageAttachment {
	return &discordgo.MessageAttachment{ID: "a-1", URL: h.fileURL, Filename: "sample.exe"}
}

func TestFileScan(t *testing.T) {
	h := newHarness(t)

	if err := h.run(h.attachment()); err != nil {
		t.Fatal(err)
	}

	if len(h.fake.Messages) != 1 || !strings.Contains(h.fake.Messages[0].Content, "1-2분") {
		t.Fatalf("acknowledgement = %+v", h.fake.Messages)
	}
	if len(h.fake.Edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(h.fake.Edits))
	}

	edit := h.fake.Edits[0]
	for _, want := range []string{"95.7%", "3/70", "sample.exe", "https://www.virustotal.com/file/abc/analysis/"} {
		if !strings.Contains(edit.Content, want) {
			t.Errorf("summary %q missing %q", edit.Content, want)
		}
	}
	if len(edit.Files) != 1 || edit.Files[0].Name != "sample.exe" {
		t.Errorf("files = %+v, want the scanned file re-attached", edit.Files)
	}

	if len(h.scanner.submitted) != 1 {
		t.Fatalf("submitted = %v", h.scanner.submitted)
	}
	data, err := os.ReadFile(h.scanner.submitted[0])
	if err != nil || string(data) != "MZ not really a binary" {
		t.Errorf("stored file = %q, %v", data, err)
	}

	if len(h.events.events) != 1 || h.events.events[0].Type != models.EventScan || h.events.events[0].Count != 3 {
		t.Errorf("events = %+v", h.events.events)
	}
}

func TestFileScanSchedulesDeletion(t *testing.T) {
	h := newHarness(t)
	start := time.Now()

	_ = h.run(h.attachment())

	pending := h.sched.Pending()
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	due := pending[0].DueAt.Sub(start)
	if due < DefaultRetention || due > DefaultRetention+time.Minute {
		t.Errorf("deletion due in %v, want %v", due, DefaultRetention)
	}
}

func TestFileScanMissingAttachment(t *testing.T) {
	h := newHarness(t)

	err := h.run()
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error = %v, want InvalidInput", err)
	}
	if len(h.fake.Messages) != 0 || len(h.scanner.submitted) != 0 {
		t.Error("nothing should happen without an attachment")
	}
}

func TestFileScanFailures(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(h *harness)
		wantErr      error
		wantDeletion bool
	}{
		{
			name:         "scan timeout",
			setup:        func(h *harness) { h.scanner.waitErr = errors.Wrap(errors.KindScanTimeout, nil, "") },
			wantErr:      errors.ErrScanTimeout,
			wantDeletion: true,
		},
		{
			name:         "submit fails",
			setup:        func(h *harness) { h.scanner.submitErr = fmt.Errorf("403 forbidden") },
			wantErr:      errors.ErrCollaboratorFailure,
			wantDeletion: true,
		},
		{
			name:         "report fails",
			setup:        func(h *harness) { h.scanner.waitErr = fmt.Errorf("connection reset") },
			wantErr:      errors.ErrCollaboratorFailure,
			wantDeletion: true,
		},
		{
			name:    "download fails",
			setup:   func(h *harness) { h.fileURL += ".missing" },
			wantErr: errors.ErrCollaboratorFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			err := h.run(h.attachment())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := h.sched.Len() == 1; got != tt.wantDeletion {
				t.Errorf("deletion scheduled = %v, want %v", got, tt.wantDeletion)
			}
			if len(h.events.events) != 0 {
				t.Error("no event expected for a failed scan")
			}
		})
	}
}

func TestSummary(t *testing.T) {
	clean := Summary("a.txt", "deadbeef", &virustotal.Report{Positives: 0, Total: 60, Permalink: "p"})
	if !strings.HasPrefix(clean, "✅") || !strings.Contains(clean, "100.0%") {
		t.Errorf("clean summary = %q", clean)
	}

	flagged := Summary("a.txt", "deadbeef", &virustotal.Report{Positives: 3, Total: 70, Permalink: "p"})
	if !strings.HasPrefix(flagged, "⚠️") || !strings.Contains(flagged, "95.7%") {
		t.Errorf("flagged summary = %q", flagged)
	}
}
