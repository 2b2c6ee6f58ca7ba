package models

import (
	"academy/src/db"
	"academy/src/lib"
	"academy/src/types"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobTask struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name      string      `json:"-"`
	JobType   string      `json:"-"`
	RunsAt    time.Time   `json:"-"`
	PayloadID string      `json:"-"`
	Payload   types.JSONB `gorm:"type:jsonb" json:"-"`
	Status    string      `gorm:"default:'pending'" json:"-"`
}

func (self *JobTask) CreateAndEnqueueJobTask(jobTask JobTask, handler types.ExpireTransactionJobFn) (string, error) {
	var jobID string
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		jobTask.ID = uuid.New()
		if err := tx.Create(&jobTask).Error; err != nil {
			return err
		}
		sid, err := lib.CreateOneTimeCronJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(jobTask.RunsAt)),
			gocron.NewTask(handler, jobTask.PayloadID),
		)
		if err != nil {
			log.Printf("Error creating job for task %s: %s\n", jobTask.Name, err.Error())
			return err
		}
		jobID = *sid
		return nil
	})
	if err != nil {
		return "", err
	}
	strRunsAt := jobTask.RunsAt.Format("2006-01-02T15:04:05")
	log.Printf("Created schedule for job %s with name %s at %s\n", jobID, jobTask.Name, strRunsAt)
	return jobID, nil
}
