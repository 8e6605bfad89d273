// Package player содержит компоненты для управления воспроизведением аудио
package player

// Backend открывает аудио-сессии. Одновременно звучит не больше одной сессии.
type Backend interface {
	// Open открывает и декодирует файл, не начиная воспроизведение
	Open(path string) (Session, error)
}

// Session описывает открытый трек на устройстве вывода
type Session interface {
	Play() error
	Pause()
	Resume()
	// Stop останавливает вывод и освобождает ресурсы сессии
	Stop()
}
