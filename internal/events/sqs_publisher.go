package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/config"
	"github.com/bhardwajj01/parkingrevolution/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSPublisher đẩy sự kiện booking lên SQS queue để các hệ thống khác
// (notification, báo cáo) tiêu thụ. Publish lỗi chỉ được log, không bao giờ
// làm fail request gốc.
type SQSPublisher struct {
	sqsClient *sqs.Client
	queueURL  string
}

func NewSQSPublisher(client *sqs.Client, cfg *config.Config) *SQSPublisher {
	return &SQSPublisher{
		sqsClient: client,
		queueURL:  cfg.SQSBookingEventQueueURL,
	}
}

func (p *SQSPublisher) NotifyBookingEvent(event domain.BookingEventNotification) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("SQS Publisher: Lỗi marshal sự kiện booking: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = p.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		log.Printf("SQS Publisher: Lỗi gửi sự kiện booking %s: %v", event.EventID, err)
		return
	}
	log.Printf("SQS Publisher: Đã gửi sự kiện booking %s (%s)", event.EventID, event.EventType)
}
