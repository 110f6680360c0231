// Package qdrant queries a Qdrant collection over gRPC.
package qdrant

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// pointsSearcher is the consumer interface over pb.PointsClient.
type pointsSearcher interface {
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
}

// healthChecker is the consumer interface over pb.QdrantClient.
type healthChecker interface {
	HealthCheck(ctx context.Context, in *pb.HealthCheckRequest, opts ...grpc.CallOption) (*pb.HealthCheckReply, error)
}

// Point is one scored search result with its string payload.
type Point struct {
	ID      string
	Score   float64
	Payload map[string]string
}

// Store is a read-only view over one collection.
type Store struct {
	conn       *grpc.ClientConn
	points     pointsSearcher
	service    healthChecker
	collection string
	apiKey     string
}

// Options configures the connection.
type Options struct {
	Addr       string
	Collection string
	APIKey     string
	UseTLS     bool
}

// New connects to Qdrant at opts.Addr. The connection is lazy; no RPC is made here.
func New(opts Options) (*Store, error) {
	creds := insecure.NewCredentials()
	if opts.UseTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	conn, err := grpc.NewClient(opts.Addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", opts.Addr, err)
	}
	return &Store{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		service:    pb.NewQdrantClient(conn),
		collection: opts.Collection,
		apiKey:     opts.APIKey,
	}, nil
}

// newWithClients wires pre-built clients, used in tests.
func newWithClients(points pointsSearcher, service healthChecker, collection string) *Store {
	return &Store{points: points, service: service, collection: collection}
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("qdrant: close: %w", err)
	}
	return nil
}

func (s *Store) outgoing(ctx context.Context) context.Context {
	if s.apiKey == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "api-key", s.apiKey)
}

// Search performs k-NN similarity search with payload.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]Point, error) {
	resp, err := s.points.Search(s.outgoing(ctx), &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK), //nolint:gosec // topK is validated positive
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search %s: %w: %w", s.collection, domain.ErrUpstream, err)
	}

	out := make([]Point, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		p := Point{
			ID:      pointID(r.GetId()),
			Score:   float64(r.GetScore()),
			Payload: make(map[string]string, len(r.GetPayload())),
		}
		for k, v := range r.GetPayload() {
			p.Payload[k] = valueString(v)
		}
		out = append(out, p)
	}
	return out, nil
}

// HealthCheck calls the Qdrant service health RPC.
func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := s.service.HealthCheck(s.outgoing(ctx), &pb.HealthCheckRequest{}); err != nil {
		return fmt.Errorf("qdrant: health: %w", err)
	}
	return nil
}

func pointID(id *pb.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

func valueString(v *pb.Value) string {
	switch k := v.GetKind().(type) {
	case *pb.Value_StringValue:
		return k.StringValue
	case *pb.Value_IntegerValue:
		return strconv.FormatInt(k.IntegerValue, 10)
	case *pb.Value_DoubleValue:
		return strconv.FormatFloat(k.DoubleValue, 'f', -1, 64)
	case *pb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	default:
		return ""
	}
}
