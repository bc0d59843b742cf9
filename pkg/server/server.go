package server

import (
	"expvar"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	// Port is a server port to listen to
	Port int `toml:"port"`
	// Bind a specific IP addresses for server
	// "*": bind all IP addresses which is default option
	// localhost or 127.0.0.1  bind a single IPv4 address
	BindAddress string `toml:"bind_address"`
	// Flag indicating if the server will use TLS
	TLS bool `toml:"tls"`
	// Path to a certificate file for TLS connections
	CertificatePath string `toml:"certificate_path"`
	// Path to a private key file for TLS connections
	KeyFilePath string `toml:"key_file_path"`
	// Expose expvar endpoints under /debug/vars
	DebugEndpoints bool `toml:"debug_endpoints"`
}

type Server struct {
	http.Server

	tls             bool
	certificatePath string
	keyFilePath     string
}

func New(cfg Config, handler http.Handler) *Server {
	port := cfg.Port
	if port == 0 {
		port = 8080
	}

	bindAddress := cfg.BindAddress
	if bindAddress == "*" {
		bindAddress = ""
	}

	mux := http.NewServeMux()
	mux.Handle("/", handler)

	if cfg.DebugEndpoints {
		log.Debug("debug endpoints enabled")
		mux.Handle("/debug/vars", expvar.Handler())
	}

	srv := Server{
		tls:             cfg.TLS,
		certificatePath: cfg.CertificatePath,
		keyFilePath:     cfg.KeyFilePath,
	}

	srv.Addr = fmt.Sprintf("%s:%d", bindAddress, port)
	srv.Handler = mux

	log.Debugf("using address: %s", srv.Addr)

	return &srv
}

func (srv *Server) Start() error {
	if srv.tls {
		return srv.ListenAndServeTLS(srv.certificatePath, srv.keyFilePath)
	}

	return srv.ListenAndServe()
}
