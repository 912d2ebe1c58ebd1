package mapping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/requestmapping/pkg/common/logger"
	"github.com/synaptica-ai/requestmapping/pkg/common/models"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
	"github.com/synaptica-ai/requestmapping/pkg/observability/metrics"
	"gorm.io/datatypes"
)

const ServiceName = "request-mapper"

type Store interface {
	Create(ctx context.Context, rec *Record) error
	SaveOutput(ctx context.Context, id string, output datatypes.JSONMap) error
	UpdateStatus(ctx context.Context, id, status, errMsg string) error
	Get(ctx context.Context, id string) (*Record, error)
	CleanupExpired(ctx context.Context, ttl time.Duration) error
}

type Cache interface {
	Put(ctx context.Context, res *Result, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Result, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type Forwarder interface {
	Forward(ctx context.Context, id string, out datamapper.OutputRecord) error
}

// Service runs the mapping stage: persist, map, forward and publish.
// cache, dlq and forwarder are optional.
type Service struct {
	store     Store
	cache     Cache
	producer  Publisher
	dlq       Publisher
	forwarder Forwarder
	props     datamapper.Properties
	ttl       time.Duration
}

func NewService(store Store, cache Cache, producer Publisher, dlq Publisher, forwarder Forwarder, props datamapper.Properties, ttl time.Duration) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		producer:  producer,
		dlq:       dlq,
		forwarder: forwarder,
		props:     props,
		ttl:       ttl,
	}
}

func (s *Service) MapOnly(input datamapper.InputRecord) datamapper.OutputRecord {
	return datamapper.Map(input)
}

func (s *Service) Descriptor() datamapper.Descriptor {
	return datamapper.DefaultDescriptor().WithProperties(s.props)
}

func (s *Service) Process(ctx context.Context, source, sourceEventID string, input datamapper.InputRecord) (*models.MappingResponse, error) {
	id := uuid.New().String()
	log := logger.WithMapping(id)

	rec := &Record{
		ID:            id,
		SourceEventID: sourceEventID,
		Source:        source,
		Status:        StatusAccepted,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		metrics.IncFailed()
		return nil, fmt.Errorf("persisting mapping record: %w", err)
	}

	output := datamapper.Map(input)
	metrics.IncMapped()
	payload := output.Payload()

	if err := s.store.SaveOutput(ctx, id, datatypes.JSONMap(payload)); err != nil {
		s.fail(ctx, id, output, err)
		return nil, fmt.Errorf("storing mapped output: %w", err)
	}

	if s.forwarder != nil {
		if err := s.forwarder.Forward(ctx, id, output); err != nil {
			log.WithError(err).Error("failed to forward appointment request")
			s.fail(ctx, id, output, err)
			s.deadLetter(ctx, id, source, sourceEventID, payload, err)
			return nil, fmt.Errorf("forwarding appointment request: %w", err)
		}
		metrics.IncForwarded()
	}

	event := map[string]interface{}{
		"mapping_id":      id,
		"source":          source,
		"source_event_id": sourceEventID,
		"properties":      s.eventProperties(),
		"output":          payload,
	}
	if err := s.producer.PublishEvent(ctx, models.EventTypeMapped, ServiceName, event); err != nil {
		log.WithError(err).Error("failed to publish mapped event")
		s.fail(ctx, id, output, err)
		s.deadLetter(ctx, id, source, sourceEventID, payload, err)
		return nil, fmt.Errorf("publishing mapped event: %w", err)
	}

	if err := s.store.UpdateStatus(ctx, id, StatusPublished, ""); err != nil {
		log.WithError(err).Warn("failed to mark mapping published")
	}
	metrics.IncPublished()
	s.remember(ctx, &Result{ID: id, Status: StatusPublished, Output: &output})

	return &models.MappingResponse{
		ID:        id,
		Status:    StatusPublished,
		Timestamp: time.Now().UTC(),
	}, nil
}

// HandleEvent is the consumer entry point. The intake record is read from
// data.payload when present, otherwise from data itself.
func (s *Service) HandleEvent(ctx context.Context, event models.Event) error {
	input, err := inputFromEvent(event)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("skipping undecodable intake event")
		return nil
	}

	resp, err := s.Process(ctx, event.Source, event.ID, input)
	if err != nil {
		return err
	}
	logger.WithMapping(resp.ID).WithField("event_id", event.ID).Info("intake event mapped")
	return nil
}

func (s *Service) Result(ctx context.Context, id string) (*Result, error) {
	if s.cache != nil {
		res, err := s.cache.Get(ctx, id)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrNotFound) {
			logger.WithMapping(id).WithError(err).Warn("result cache lookup failed")
		}
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Result()
}

func (s *Service) Cleanup(ctx context.Context) error {
	return s.store.CleanupExpired(ctx, s.ttl)
}

func (s *Service) fail(ctx context.Context, id string, output datamapper.OutputRecord, cause error) {
	metrics.IncFailed()
	if err := s.store.UpdateStatus(ctx, id, StatusFailed, cause.Error()); err != nil {
		logger.WithMapping(id).WithError(err).Warn("failed to mark mapping failed")
	}
	s.remember(ctx, &Result{ID: id, Status: StatusFailed, Output: &output, Error: cause.Error()})
}

func (s *Service) deadLetter(ctx context.Context, id, source, sourceEventID string, payload map[string]interface{}, cause error) {
	if s.dlq == nil {
		return
	}
	err := s.dlq.PublishEvent(ctx, models.EventTypeMappingDLQ, ServiceName, map[string]interface{}{
		"mapping_id":      id,
		"source":          source,
		"source_event_id": sourceEventID,
		"output":          payload,
		"error":           cause.Error(),
	})
	if err != nil {
		logger.WithMapping(id).WithError(err).Error("failed to push event to DLQ")
		return
	}
	metrics.IncDeadLettered()
}

func (s *Service) remember(ctx context.Context, res *Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, res, s.ttl); err != nil {
		logger.WithMapping(res.ID).WithError(err).Warn("failed to cache mapping result")
	}
}

func (s *Service) eventProperties() map[string]string {
	if len(s.props) == 0 {
		return nil
	}
	return map[string]string(s.props)
}

func inputFromEvent(event models.Event) (datamapper.InputRecord, error) {
	if event.Data == nil {
		return datamapper.InputRecord{}, datamapper.NewDecodeError(errors.New("event data missing"))
	}

	switch payload := event.Data["payload"].(type) {
	case map[string]interface{}:
		return datamapper.FromPayload(payload), nil
	case string:
		return datamapper.DecodeInput([]byte(payload))
	case nil:
		return datamapper.FromPayload(event.Data), nil
	default:
		return datamapper.InputRecord{}, datamapper.NewDecodeError(fmt.Errorf("unsupported payload type %T", payload))
	}
}
