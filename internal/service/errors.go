package service

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Ошибки внешнего оптимизатора
	ErrSimulationFailed = errors.New("backend simulation failed to execute")
	ErrArtifactMissing  = errors.New("simulation ran but output artifact was not found")
	ErrArtifactInvalid  = errors.New("simulation output could not be parsed")

	ErrPersistence       = errors.New("failed to persist action plan")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrInvalidHistoryKey = errors.New("invalid history key")
)

// HistoryKeyLayout - формат ключа записи истории (точность одна секунда)
const HistoryKeyLayout = "2006-01-02_15-04-05"

var historyKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`)

// ValidHistoryKey проверяет, что ключ истории соответствует HistoryKeyLayout
func ValidHistoryKey(key string) bool {
	return historyKeyPattern.MatchString(key)
}

// IsUpstreamError сообщает, что ошибка вызвана внешним оптимизатором
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrSimulationFailed) || errors.Is(err, ErrArtifactMissing) || errors.Is(err, ErrArtifactInvalid)
}

// PersistError описывает сбой записи текущего плана и/или записи истории.
// Обе записи выполняются независимо, успешная запись текущего плана не откатывается.
type PersistError struct {
	Current error
	History error
}

// NewPersistError возвращает nil, если обе записи прошли успешно
func NewPersistError(current, history error) error {
	if current == nil && history == nil {
		return nil
	}
	return &PersistError{Current: current, History: history}
}

func (e *PersistError) Error() string {
	var parts []string
	if e.Current != nil {
		parts = append(parts, "current plan write failed: "+e.Current.Error())
	}
	if e.History != nil {
		parts = append(parts, "history write failed: "+e.History.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *PersistError) Unwrap() []error {
	var errs []error
	if e.Current != nil {
		errs = append(errs, e.Current)
	}
	if e.History != nil {
		errs = append(errs, e.History)
	}
	return errs
}

// CurrentSaved сообщает, что текущий план записан и не сохранена только история
func (e *PersistError) CurrentSaved() bool {
	return e.Current == nil
}
