package player

// State описывает состояние контроллера воспроизведения.
//
//	Idle ──play──▶ Playing ──pause──▶ Paused
//	  ▲              │  ▲                │
//	  │              │  └─────resume─────┤
//	  └─────stop─────┴───────stop────────┘
//
// play допустим из любого состояния и заменяет текущую сессию.
// pause из Idle/Paused, resume из Idle/Playing и stop из Idle
// возвращают ErrInvalidState без смены состояния.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

// String возвращает имя состояния
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Label возвращает название состояния для пользователя
func (s State) Label() string {
	switch s {
	case Playing:
		return "Воспроизведение"
	case Paused:
		return "Пауза"
	default:
		return "Остановлено"
	}
}

// IsActive возвращает true, если есть открытая сессия
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
