package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Clicheria-api/pkg/logger"
	"github.com/jhoicas/Clicheria-api/pkg/metrics"
)

// runTimeout tiempo máximo de una pasada del programador.
const runTimeout = time.Minute

// overdueChecker lo implementa UseCase.
type overdueChecker interface {
	CheckOverdue(ctx context.Context) (int, error)
}

// AlertScheduler ejecuta CheckOverdue según una expresión cron.
type AlertScheduler struct {
	cron    *cron.Cron
	checker overdueChecker
	log     *logger.Logger
}

// NewAlertScheduler valida la expresión (acepta descriptores como "@every 15m").
func NewAlertScheduler(checker overdueChecker, spec string, log *logger.Logger) (*AlertScheduler, error) {
	l := log.Component("alerts")
	cl := cronLogger{l}
	s := &AlertScheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		checker: checker,
		log:     l,
	}
	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return nil, fmt.Errorf("alerts: expresión cron %q: %w", spec, err)
	}
	return s, nil
}

// Start arranca el programador en su propia goroutine.
func (s *AlertScheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("programador de alertas iniciado")
}

// Stop detiene el programador y espera la pasada en curso o el fin de ctx.
func (s *AlertScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("pasada de alertas interrumpida por apagado")
	}
}

// Run ejecuta una pasada.
func (s *AlertScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	n, err := s.checker.CheckOverdue(ctx)
	metrics.RecordAlertRun(err == nil)
	if err != nil {
		s.log.Error().Err(err).Int("created", n).Msg("pasada de alertas fallida")
		return
	}
	if n > 0 {
		s.log.Info().Int("created", n).Msg("alertas de despacho vencido generadas")
	}
}

// cronLogger lleva los mensajes de cron a zerolog. Los informativos de cron
// (arranque, cada ejecución) van a debug.
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
