package lovense

import (
	"context"
	"sync"
)

// TestToyService is an in-memory service double for actor and
// coordinator tests.
type TestToyService struct {
	QrCode     *QrCode
	QrErr      error
	Toys       ToyMap
	ToysErr    error
	CommandErr error

	mu          sync.Mutex
	commands    []Command
	rawCommands []map[string]any
}

func CreateTestToyService() *TestToyService {
	return &TestToyService{
		QrCode: &QrCode{Qr: "https://test.lovense.example/qr/abc", Code: "abc"},
		Toys: ToyMap{
			"d290f1ee": {
				Id:                 "d290f1ee",
				Name:               "Solace Pro",
				ToyType:            "solace",
				Battery:            intRef(80),
				Connected:          true,
				FVersion:           "3.1.1",
				ShortFunctionNames: []string{"v", "t", "d"},
			},
			"aa11bb22": {
				Id:                 "aa11bb22",
				Name:               "Lush 3",
				ToyType:            "lush",
				Battery:            intRef(55),
				Connected:          true,
				FVersion:           "1.8.0",
				ShortFunctionNames: []string{"v"},
			},
		},
	}
}

func (s *TestToyService) GetQrCode(ctx context.Context) (*QrCode, error) {
	if s.QrErr != nil {
		return nil, s.QrErr
	}
	return s.QrCode, nil
}

func (s *TestToyService) GetToys(ctx context.Context, endpoint *Endpoint) (ToyMap, error) {
	if s.ToysErr != nil {
		return nil, s.ToysErr
	}
	return s.Toys, nil
}

func (s *TestToyService) SendCommand(ctx context.Context, endpoint Endpoint, command Command) error {
	if s.CommandErr != nil {
		return s.CommandErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command)
	return nil
}

func (s *TestToyService) SendRawCommand(ctx context.Context, endpoint Endpoint, payload map[string]any) error {
	if s.CommandErr != nil {
		return s.CommandErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawCommands = append(s.rawCommands, payload)
	return nil
}

// SentCommands returns a copy of every command accepted so far.
func (s *TestToyService) SentCommands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	commands := make([]Command, len(s.commands))
	copy(commands, s.commands)
	return commands
}

// SentRawCommands returns a copy of every raw payload accepted so far.
func (s *TestToyService) SentRawCommands() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	rawCommands := make([]map[string]any, len(s.rawCommands))
	copy(rawCommands, s.rawCommands)
	return rawCommands
}

func intRef(value int) *int {
	return &value
}
