// Package audit expone el log de auditoría: registrar acciones y consultarlas por día.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/bodega/internal/application/dto"
	"github.com/jhoicas/bodega/internal/domain"
	"github.com/jhoicas/bodega/internal/domain/entity"
	"github.com/jhoicas/bodega/internal/domain/repository"
	"github.com/jhoicas/bodega/pkg/logger"
)

// DefaultRecentDays cantidad de días listados por RecentDays.
const DefaultRecentDays = 5

// AuditLog caso de uso de auditoría sobre un AuditRepository.
type AuditLog struct {
	repo   repository.AuditRepository
	clock  func() time.Time
	log    *logger.Logger
	recent int
}

// NewAuditLog construye el caso de uso. clock nil usa time.Now; recent <= 0 usa DefaultRecentDays.
func NewAuditLog(repo repository.AuditRepository, clock func() time.Time, log *logger.Logger, recent int) *AuditLog {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	if recent <= 0 {
		recent = DefaultRecentDays
	}
	return &AuditLog{repo: repo, clock: clock, log: log.Component("audit"), recent: recent}
}

// Record agrega una entrada con la hora actual al archivo del día.
func (a *AuditLog) Record(ctx context.Context, user, action, description string) error {
	if strings.TrimSpace(action) == "" {
		return fmt.Errorf("%w: acción de auditoría vacía", domain.ErrInvalidInput)
	}
	entry := entity.AuditEntry{
		Timestamp:   a.clock().Truncate(time.Second),
		User:        user,
		Action:      action,
		Description: description,
	}
	if err := a.repo.Append(ctx, entry); err != nil {
		return err
	}
	a.log.Debug().Str("user", user).Str("action", action).Msg("auditoría registrada")
	return nil
}

// Days todos los días con registro, del más reciente al más antiguo.
func (a *AuditLog) Days(ctx context.Context) ([]string, error) {
	return a.repo.Days(ctx)
}

// RecentDays los últimos días con registro (por defecto 5), del más reciente al más antiguo.
func (a *AuditLog) RecentDays(ctx context.Context) ([]string, error) {
	days, err := a.repo.Days(ctx)
	if err != nil {
		return nil, err
	}
	if len(days) > a.recent {
		days = days[:a.recent]
	}
	return days, nil
}

// Read entradas de day (YYYY-MM-DD). Vacío u "hoy" lee el día actual.
func (a *AuditLog) Read(ctx context.Context, day string) (dto.AuditDayResponse, error) {
	day = strings.TrimSpace(day)
	if day == "" || strings.EqualFold(day, "hoy") {
		day = a.clock().Format("2006-01-02")
	}
	res, err := a.repo.Read(ctx, day)
	if err != nil {
		return dto.AuditDayResponse{}, err
	}
	out := dto.AuditDayResponse{Day: res.Day, Entries: make([]dto.AuditEntryDTO, 0, len(res.Entries)), Skipped: res.Skipped}
	for _, e := range res.Entries {
		out.Entries = append(out.Entries, dto.AuditEntryDTO{
			Timestamp:   e.Timestamp,
			User:        e.User,
			Action:      e.Action,
			Description: e.Description,
		})
	}
	return out, nil
}
