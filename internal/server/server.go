// Package server это HTTP API поверх конвейера: синхронный и асинхронный
// запуск, чтение отчётов, магазинов и прогноз рекламы.
package server

// Server объединяет серверы отдельных сущностей.
type Server struct {
	RunServer
	StoreServer
	AdServer
}

func NewServer(
	runServer RunServer,
	storeServer StoreServer,
	adServer AdServer,
) Server {
	return Server{
		RunServer:   runServer,
		StoreServer: storeServer,
		AdServer:    adServer,
	}
}
