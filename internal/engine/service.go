package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"gridboard-server/internal/network"
	"gridboard-server/internal/storage"
	"gridboard-server/pkg/api"
	"gridboard-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoWatch        = errors.New("no running watch for level")
	ErrSubscriberGone = errors.New("subscriber unregistered")
)

// watch - прогон одного подписчика. Session не потокобезопасна,
// поэтому Step и снимок очереди идут под mu.
type watch struct {
	mu      sync.Mutex
	level   int
	session *Session
}

func (w *watch) step() []TurnEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Step()
}

// QueueSnapshot - очередь ходов одного идущего прогона
type QueueSnapshot struct {
	Subscriber string           `json:"subscriber"`
	Tick       int              `json:"tick"`
	Queue      []map[string]any `json:"queue"`
}

func (w *watch) snapshot(subscriber string) QueueSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return QueueSnapshot{Subscriber: subscriber, Tick: w.session.Tick(), Queue: w.session.Queue()}
}

// GameService держит сгенерированные уровни процесса и гоняет по ним роботов
type GameService struct {
	cfg Config

	mu     sync.RWMutex
	levels map[int]*Level

	// watchMu защищает watches: прогоны, идущие сейчас, по ID подписчика
	watchMu sync.Mutex
	watches map[string]*watch

	Records *storage.RecordService
	Hub     *network.Broadcaster

	log *logrus.Entry
}

func NewService(cfg Config) *GameService {
	return &GameService{
		cfg:     cfg,
		levels:  make(map[int]*Level),
		watches: make(map[string]*watch),
		Records: storage.NewRecordService(cfg.ReplayDir),
		Hub:     network.NewBroadcaster(),
		log:     logger.Component("service"),
	}
}

func (s *GameService) Config() Config { return s.cfg }

// Level возвращает уровень из кэша или генерирует его
func (s *GameService) Level(n int) (*Level, error) {
	s.mu.RLock()
	lvl, ok := s.levels[n]
	s.mu.RUnlock()
	if ok {
		return lvl, nil
	}

	lvl, err := BuildLevel(s.cfg, n)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Параллельный запрос мог успеть раньше: уровни детерминированы, оставляем первый
	if existing, ok := s.levels[n]; ok {
		return existing, nil
	}
	s.levels[n] = lvl
	return lvl, nil
}

// Cached возвращает только уже сгенерированный уровень
func (s *GameService) Cached(n int) (*Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lvl, ok := s.levels[n]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, n)
	}
	return lvl, nil
}

// BuildOneOff строит уровень с другим мастер-сидом. В кэш не попадает.
func (s *GameService) BuildOneOff(n int, master uint64) (*Level, error) {
	cfg := s.cfg
	cfg.Seed = master
	return BuildLevel(cfg, n)
}

// Levels - все сгенерированные уровни по возрастанию номера
func (s *GameService) Levels() []*Level {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Level, 0, len(s.levels))
	for _, n := range slices.Sorted(maps.Keys(s.levels)) {
		out = append(out, s.levels[n])
	}
	return out
}

// Watch прогоняет роботов по уровню и шлет ходы подписчику через Hub.
// Подписчик должен быть зарегистрирован заранее. Между ходами пауза TurnDelay.
func (s *GameService) Watch(ctx context.Context, level int, subscriberID string) (Status, error) {
	lvl, err := s.Level(level)
	if err != nil {
		s.Hub.SendTo(subscriberID, api.TurnUpdate{Type: api.MessageError, Level: level, Error: err.Error()})
		return StatusLost, err
	}

	session := NewSession(lvl.Board, s.cfg.SessionConfig())
	w := s.track(subscriberID, level, session)
	defer s.untrack(subscriberID, w)

	log := s.log.WithFields(logrus.Fields{"level": level, "subscriber": subscriberID})
	log.Info("Watch started")

	s.Hub.SendTo(subscriberID, api.TurnUpdate{
		Type:   api.MessageBoard,
		Level:  level,
		Status: session.Status().String(),
		Board:  api.NewBoardView(lvl.Board),
		Robots: session.RobotViews(),
	})

	var tick <-chan time.Time
	if s.cfg.TurnDelay > 0 {
		ticker := time.NewTicker(s.cfg.TurnDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for !session.Done() || session.pending() {
		if tick != nil {
			select {
			case <-ctx.Done():
				log.Info("Watch cancelled")
				return session.Status(), ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return session.Status(), err
		}

		// зритель ушел: дальше гонять некому
		if !s.Hub.HasSubscriber(subscriberID) {
			log.Info("Subscriber gone, watch stopped")
			return session.Status(), ErrSubscriberGone
		}

		events := w.step()
		s.Hub.SendTo(subscriberID, api.TurnUpdate{
			Type:   api.MessageTurn,
			Level:  level,
			Tick:   session.Tick(),
			Status: session.Status().String(),
			Robots: session.RobotViews(),
			Events: eventViews(events),
		})
	}

	s.Hub.SendTo(subscriberID, api.TurnUpdate{
		Type:   api.MessageDone,
		Level:  level,
		Tick:   session.Tick(),
		Status: session.Status().String(),
		Robots: session.RobotViews(),
	})
	log.WithField("status", session.Status()).Info("Watch finished")
	return session.Status(), nil
}

func (s *GameService) track(subscriberID string, level int, session *Session) *watch {
	w := &watch{level: level, session: session}
	s.watchMu.Lock()
	s.watches[subscriberID] = w
	s.watchMu.Unlock()
	return w
}

func (s *GameService) untrack(subscriberID string, w *watch) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	// Под тем же ID мог начаться новый прогон
	if s.watches[subscriberID] == w {
		delete(s.watches, subscriberID)
	}
}

// QueueDump - очереди ходов всех идущих прогонов уровня, по ID подписчика
func (s *GameService) QueueDump(level int) ([]QueueSnapshot, error) {
	s.watchMu.Lock()
	var (
		ids     []string
		running []*watch
	)
	for _, id := range slices.Sorted(maps.Keys(s.watches)) {
		if w := s.watches[id]; w.level == level {
			ids = append(ids, id)
			running = append(running, w)
		}
	}
	s.watchMu.Unlock()

	if len(running) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoWatch, level)
	}
	out := make([]QueueSnapshot, len(running))
	for i, w := range running {
		out[i] = w.snapshot(ids[i])
	}
	return out, nil
}

// Shutdown рассылает всем зрителям уведомление об остановке сервера
func (s *GameService) Shutdown() {
	s.watchMu.Lock()
	running := len(s.watches)
	s.watchMu.Unlock()

	s.Hub.Broadcast(api.TurnUpdate{Type: api.MessageShutdown})
	s.log.WithFields(logrus.Fields{
		"subscribers": s.Hub.SubscriberCount(),
		"watches":     running,
	}).Info("Shutdown notice sent")
}

func eventViews(events []TurnEvent) []api.EventView {
	out := make([]api.EventView, len(events))
	for i, e := range events {
		out[i] = e.View()
	}
	return out
}

// SaveRecords пишет записи всех сгенерированных уровней
func (s *GameService) SaveRecords() ([]string, error) {
	var (
		paths []string
		errs  []error
	)
	for _, lvl := range s.Levels() {
		path, err := s.Records.Save(lvl.Record())
		if err != nil {
			errs = append(errs, fmt.Errorf("level %d: %w", lvl.Number, err))
			continue
		}
		paths = append(paths, path)
	}
	s.log.WithField("saved", len(paths)).Info("Level records saved")
	return paths, errors.Join(errs...)
}

// LoadRecord пересобирает уровень по записи, сверяет количества и кладет в кэш
func (s *GameService) LoadRecord(path string) (*Level, error) {
	rec, err := s.Records.Load(path)
	if err != nil {
		return nil, err
	}
	lvl, err := LevelFromRecord(rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.levels[lvl.Number] = lvl
	s.mu.Unlock()
	return lvl, nil
}

// Replay загружает запись и прогоняет по ней роботов без пауз
func (s *GameService) Replay(ctx context.Context, path string) (*Level, Status, error) {
	lvl, err := s.LoadRecord(path)
	if err != nil {
		return nil, StatusLost, err
	}
	status, err := NewSession(lvl.Board, s.cfg.SessionConfig()).Run(ctx, nil)
	if err != nil {
		return lvl, status, err
	}

	s.log.WithFields(logrus.Fields{
		"level":  lvl.Number,
		"seed":   lvl.Config.Seed,
		"status": status,
	}).Info("Replay finished")
	return lvl, status, nil
}
