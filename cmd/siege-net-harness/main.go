// Command siege-net-harness runs a client and a server endpoint over a real
// loopback UDP socket pair, drives the handshake and a few heartbeats to
// convergence, and serves Prometheus metrics for the client side.
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sncrypto "github.com/SiegeEngine/siege-net/crypto"
	"github.com/SiegeEngine/siege-net/endpoint"
	"github.com/SiegeEngine/siege-net/internal/contextutil"
	"github.com/SiegeEngine/siege-net/observability"
	"github.com/SiegeEngine/siege-net/observability/prom"
	"github.com/SiegeEngine/siege-net/packet"
	"github.com/SiegeEngine/siege-net/transport"
)

const (
	harnessMagic   = 0xFF000
	harnessVersion = 0x001
)

func main() {
	var metricsAddr string
	flag.StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:0", "address to serve /metrics on")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverPub, serverPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("generate server identity: %v", err)
	}

	server, err := transport.ListenUDP("127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen server: %v", err)
	}
	defer server.Close()

	client, err := transport.ListenUDP("127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen client: %v", err)
	}
	defer client.Close()

	reg := prom.NewRegistry()
	clientObs := prom.NewObserver(reg)
	atomicObs := observability.NewAtomic()
	atomicObs.Set(clientObs)

	metricsLn, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		log.Fatalf("listen metrics: %v", err)
	}
	metricsSrv := &http.Server{Handler: prom.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.Serve(metricsLn); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
		}
	}()
	defer shutdownHTTPServer(metricsSrv)
	log.Printf("metrics: http://%s/metrics", metricsLn.Addr())

	go runServer(ctx, server, serverPriv)

	if err := runClient(ctx, client, server.LocalAddr(), serverPub, atomicObs); err != nil {
		log.Fatalf("client: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-time.After(200 * time.Millisecond):
	}
}

// runServer answers one client's handshake and heartbeats until ctx is done.
func runServer(ctx context.Context, tr *transport.UDPTransport, priv ed25519.PrivateKey) {
	var remote *endpoint.Remote

	for {
		data, addr, err := tr.ReadFrom(ctx)
		if err != nil {
			return
		}
		switch packet.ValidateMagicAndVersion(data, harnessMagic, harnessVersion) {
		case packet.MagicOK:
		default:
			continue
		}

		if remote == nil {
			remote, err = endpoint.New(addr, rand.Reader)
			if err != nil {
				log.Printf("server: new remote: %v", err)
				continue
			}
		}

		msg, seq, _, err := remote.DeserializePacket(data)
		if err != nil {
			log.Printf("server: deserialize: %v", err)
			continue
		}

		switch m := msg.(type) {
		case packet.Init:
			sig := ed25519.Sign(priv, m.Nonce[:])
			var sig64 [64]byte
			copy(sig64[:], sig)
			ack, err := remote.NewInitAck(sig64)
			if err != nil {
				log.Printf("server: new init ack: %v", err)
				continue
			}
			// InitAck is sealed the same way Init is: under the all-zero
			// pre-session key. Only derive the real session key once the
			// reply is safely on the wire, or the peer (which opens InitAck
			// before it derives its own session key) will fail the AEAD tag.
			sealed, err := remote.SerializeReplyPacket(ack, harnessMagic, harnessVersion, seq)
			if err != nil {
				log.Printf("server: serialize init ack: %v", err)
				continue
			}
			if err := tr.WriteTo(ctx, sealed, addr); err != nil {
				return
			}
			if err := remote.ComputeSessionKey(m.PublicKey); err != nil {
				log.Printf("server: compute session key: %v", err)
				continue
			}
		case packet.Heartbeat:
			sealed, err := remote.SerializeReplyPacket(packet.HeartbeatAck{}, harnessMagic, harnessVersion, seq)
			if err != nil {
				log.Printf("server: serialize heartbeat ack: %v", err)
				continue
			}
			if err := tr.WriteTo(ctx, sealed, addr); err != nil {
				return
			}
		}
	}
}

// runClient drives the handshake and three heartbeats, logging the
// converging clock offset window after each round trip.
func runClient(ctx context.Context, tr *transport.UDPTransport, serverAddr net.Addr, serverPub ed25519.PublicKey, obs observability.Observer) error {
	remote, err := endpoint.New(serverAddr, rand.Reader, endpoint.WithObserver(obs))
	if err != nil {
		return err
	}

	handshakeCtx, handshakeCancel := contextutil.WithTimeout(ctx, 2*time.Second)
	defer handshakeCancel()

	init, err := remote.NewInit()
	if err != nil {
		return err
	}
	sealed, err := remote.SerializePacket(init, harnessMagic, harnessVersion)
	if err != nil {
		return err
	}
	if err := tr.WriteTo(handshakeCtx, sealed, serverAddr); err != nil {
		return err
	}

	data, _, err := tr.ReadFrom(handshakeCtx)
	if err != nil {
		return err
	}
	msg, _, _, err := remote.DeserializePacket(data)
	if err != nil {
		return err
	}
	ack, ok := msg.(packet.InitAck)
	if !ok {
		return errUnexpectedReply
	}
	if err := remote.ValidateNonceSignature(ack.GetNonceResponse()[:], serverPub); err != nil {
		return err
	}
	if err := remote.ComputeSessionKey(ack.PublicKey); err != nil {
		return err
	}
	log.Printf("handshake complete, session key established (len=%d)", sncrypto.KeySize)

	for i := 0; i < 3; i++ {
		sealed, err := remote.SerializePacket(packet.Heartbeat{}, harnessMagic, harnessVersion)
		if err != nil {
			return err
		}
		if err := tr.WriteTo(ctx, sealed, serverAddr); err != nil {
			return err
		}
		data, _, err := tr.ReadFrom(ctx)
		if err != nil {
			return err
		}
		if _, _, _, err := remote.DeserializePacket(data); err != nil {
			return err
		}
		if width, ok := remote.ClockWindowSize(); ok {
			log.Printf("round %d: clock offset window = %dms", i+1, width)
		}
	}
	return nil
}

var errUnexpectedReply = errors.New("harness: expected InitAck in reply to Init")

func shutdownHTTPServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
