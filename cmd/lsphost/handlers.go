package main

import (
	"context"
	"encoding/json"

	"github.com/lsphost/lsphost"
)

const (
	serverName    = "lsphost"
	serverVersion = "0.1.0"
)

type initializeParams struct {
	ProcessID    *int            `json:"processId"`
	RootURI      string          `json:"rootUri"`
	Capabilities json.RawMessage `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	Capabilities map[string]interface{} `json:"capabilities"`
	ServerInfo   serverInfo             `json:"serverInfo"`
}

type logMessageParams struct {
	Type    int    `json:"type"`
	Message string `json:"message"`
}

const messageTypeInfo = 3

func register(b lsphost.HostBuilder) {
	b.Register("initialize", lsphost.RequestHandler(initialize)).
		Register("initialized", lsphost.NotificationHandler(initialized)).
		Register("shutdown", lsphost.RequestHandler(shutdown)).
		Register("exit", lsphost.NotificationHandler(exit)).
		Register("$/setTrace", lsphost.NotificationHandler(setTrace))
}

func initialize(ctx context.Context, s *lsphost.Session, p initializeParams) (*initializeResult, error) {
	s.SetClientCapabilities(p.Capabilities)
	return &initializeResult{
		Capabilities: map[string]interface{}{
			// full document sync
			"textDocumentSync": 1,
		},
		ServerInfo: serverInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	}, nil
}

func initialized(ctx context.Context, s *lsphost.Session, _ json.RawMessage) error {
	return s.Client().Notify(ctx, "window/logMessage", logMessageParams{
		Type:    messageTypeInfo,
		Message: serverName + " " + serverVersion + " is ready",
	})
}

func shutdown(ctx context.Context, s *lsphost.Session, _ json.RawMessage) (interface{}, error) {
	return nil, nil
}

func exit(ctx context.Context, s *lsphost.Session, _ json.RawMessage) error {
	s.StopServer()
	return nil
}

func setTrace(ctx context.Context, s *lsphost.Session, _ json.RawMessage) error {
	return nil
}
