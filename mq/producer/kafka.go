package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendPostCreatedEvent 发送帖子创建事件到 Kafka
// - 意图: 将新发布的帖子广播给下游（搜索索引、推荐等）
func (p *KafkaProducer) SendPostCreatedEvent(ctx context.Context, postID uint64, authorID string, category string, communityID *uint64) error {
	event := events.PostCreatedEvent{
		EventID:     uuid.New().String(),
		Timestamp:   time.Now(),
		PostID:      postID,
		AuthorID:    authorID,
		Category:    category,
		CommunityID: communityID,
	}
	return p.SendEvent(ctx, p.topics.PostCreated, event)
}

// SendPostDeleteEvent 发送帖子删除事件到 Kafka
func (p *KafkaProducer) SendPostDeleteEvent(ctx context.Context, postID uint64) error {
	event := events.PostDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		PostID:    postID,
	}
	return p.SendEvent(ctx, p.topics.PostDeleted, event)
}

// SendUserProfileUpdatedEvent 发送用户资料变更事件到 Kafka
// - 本服务的消费者会用它刷新帖子/评论/会话上的作者快照
func (p *KafkaProducer) SendUserProfileUpdatedEvent(ctx context.Context, userID string, nickname string, avatar string) error {
	event := events.UserProfileUpdatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		UserID:    userID,
		Nickname:  nickname,
		Avatar:    avatar,
	}
	return p.SendEvent(ctx, p.topics.UserProfileUpdated, event)
}

// Close 关闭底层 writer，flush 未发送完的消息。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
