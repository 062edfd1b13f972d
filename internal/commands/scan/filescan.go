// Package scan provides the filescan command, which checks an attachment
// with VirusTotal and keeps a copy for a week.
package scan

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/scheduler"
	"github.com/PancyStudios/PancyModGo/pkg/uploads"
	"github.com/PancyStudios/PancyModGo/pkg/virustotal"
	"github.com/bwmarrin/discordgo"
)

const (
	// DefaultRetention is how long a scanned file is kept
	DefaultRetention = 7 * 24 * time.Hour

	// scanTimeout bounds download, submission and polling together
	scanTimeout = 3 * time.Minute
)

// Scanner submits files and waits for their reports
type Scanner interface {
	Submit(ctx context.Context, path string) (string, error)
	WaitForReport(ctx context.Context, scanID string) (*virustotal.Report, error)
}

// Deps holds the collaborators of the scan command
type Deps struct {
	Scanner   Scanner
	Uploads   *uploads.Store
	Scheduler *scheduler.Scheduler
	// Events receives a scan event after every completed scan. May be nil.
	Events    mqtt.Publisher
	Retention time.Duration
}

type fileScanner struct {
	Deps
}

// Commands returns the scan commands
func Commands(deps Deps) []*discord.Command {
	if deps.Retention <= 0 {
		deps.Retention = DefaultRetention
	}
	s := &fileScanner{Deps: deps}
	return []*discord.Command{s.createFileScanCommand()}
}

// RegisterScanCommands registers the scan commands
func RegisterScanCommands(handler *discord.CommandHandler, deps Deps) {
	for _, cmd := range Commands(deps) {
		handler.RegisterCommand(cmd)
	}
}

func (s *fileScanner) createFileScanCommand() *discord.Command {
	return discord.NewCommand(
		"filescan",
		"첨부한 파일을 바이러스토탈로 검사합니다.",
		"scan",
		s.fileScanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        "파일",
			Description: "검사할 파일",
			Required:    true,
		},
	)
}

// fileScanHandler stores the attachment, schedules its deletion and edits the
// acknowledgement with the scan summary
func (s *fileScanner) fileScanHandler(ctx *discord.CommandContext) error {
	att := ctx.GetAttachment("파일")
	if att == nil {
		return errors.InvalidInput("❌ 검사할 파일을 첨부해주세요.")
	}

	if err := ctx.Reply("🔍 파일을 검사하고 있습니다... (약 1-2분 소요)"); err != nil {
		return err
	}

	scanCtx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	stored, err := s.Uploads.Download(scanCtx, att.URL, att.Filename)
	if err != nil {
		return errors.CollaboratorFailure(err, "❌ 파일을 내려받지 못했습니다.")
	}
	logger.Info(fmt.Sprintf("Archivo guardado: %s (%d bytes, sha256 %s)", stored.Path, stored.Size, stored.SHA256), "FileScan")

	s.scheduleDeletion(stored)

	scanID, err := s.Scanner.Submit(scanCtx, stored.Path)
	if err != nil {
		return errors.CollaboratorFailure(err, "❌ 바이러스토탈에 파일을 제출하지 못했습니다.")
	}

	report, err := s.Scanner.WaitForReport(scanCtx, scanID)
	if err != nil {
		if errors.Is(err, errors.ErrScanTimeout) {
			return err
		}
		return errors.CollaboratorFailure(err, "❌ 검사 결과를 가져오지 못했습니다.")
	}

	summary := Summary(att.Filename, stored.SHA256, report)
	logger.Info(fmt.Sprintf("Escaneo completado: %s %d/%d (%.1f%%)", att.Filename, report.Positives, report.Engines(), report.Safety()), "FileScan")

	if s.Events != nil {
		ev := models.ModerationEvent{
			Type:     models.EventScan,
			GuildID:  ctx.GuildID(),
			TargetID: ctx.User().ID,
			Count:    report.Positives,
			Detail:   fmt.Sprintf("%s %.1f%%", stored.SHA256, report.Safety()),
		}
		if err := s.Events.PublishEvent(ev); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo publicar el evento de escaneo: %v", err), "FileScan")
		}
	}

	f, err := os.Open(stored.Path)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo adjuntar %s: %v", stored.Path, err), "FileScan")
		return ctx.EditReply(summary)
	}
	defer f.Close()

	return ctx.EditReplyWithFiles(summary, &discordgo.File{
		Name:   att.Filename,
		Reader: f,
	})
}

// scheduleDeletion removes the stored file once the retention period ends.
// Files missed here are removed by the startup sweep.
func (s *fileScanner) scheduleDeletion(stored *uploads.StoredFile) {
	if s.Scheduler == nil {
		return
	}
	_, err := s.Scheduler.After("delete "+stored.Name, s.Retention, func() {
		if err := s.Uploads.Remove(stored.Path); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo eliminar %s: %v", stored.Path, err), "FileScan")
			return
		}
		logger.Info(fmt.Sprintf("Archivo eliminado: %s", stored.Path), "FileScan")
	})
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo programar la eliminación de %s: %v", stored.Path, err), "FileScan")
	}
}

// Summary formats a finished report
func Summary(fileName, sha256 string, r *virustotal.Report) string {
	icon := "✅"
	if r.Positives > 0 {
		icon = "⚠️"
	}
	return fmt.Sprintf(
		"%s **검사 완료**\n안전도: **%.1f%%**\n탐지: %d/%d\n파일명: %s\nSHA-256: `%s`\n상세 결과: %s",
		icon, r.Safety(), r.Positives, r.Engines(), fileName, sha256, r.Permalink,
	)
}
