package boot

import (
	"academy/src/config"
	"academy/src/db"
	"academy/src/lib"
	"academy/src/models"
	"academy/src/types"
	"academy/src/utils"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Membership{},
		&models.MembershipCourse{},
		&models.MembershipGroup{},
		&models.UserMembership{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.Group{},
		&models.GroupMember{},
		&models.BannedUser{},
		&models.Coupon{},
		&models.Transaction{},
		&models.BankAccount{},
		&models.PaymentChannel{},
		&models.Notification{},
		&models.Setting{},
		&models.JobTask{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	// Invoice numbers come from a sequence rather than a row count.
	if err := db.Exec("CREATE SEQUENCE IF NOT EXISTS invoice_numbers").Error; err != nil {
		log.Fatalf("error creating invoice number sequence: %s", err.Error())
	}

	return db
}

// InitSettings wires the settings table into the config provider.
func InitSettings() {
	config.RegisterSettingSource(func(key string) (string, bool) {
		var setting models.Setting
		if err := db.GetDb().
			Where(&models.Setting{SettingKey: key}).
			First(&setting).
			Error; err != nil {
			return "", false
		}
		switch v := setting.SettingValue.Inner.(type) {
		case string:
			return v, true
		case float64:
			return fmt.Sprintf("%v", v), true
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return "", false
			}
			return string(b), true
		}
	})
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	// Catch-all sweep in case a one-time expiry job was lost.
	j, err := sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(SweepExpiredTransactions),
	)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	log.Printf("Job ID: %s %s\n", j.Name(), j.ID().String())
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}

// RecoverPendingExpiries reloads persisted expiry jobs into the scheduler
// after a restart.
func RecoverPendingExpiries() error {
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	db := db.GetDb()
	ss := db.Session(&gorm.Session{PrepareStmt: true})
	var jobTasks []models.JobTask
	today := time.Now()
	in1m := today.Add(1 * time.Minute)
	in3months := today.Add((24 * 30 * 3) * time.Hour)
	err = ss.
		Model(&models.JobTask{}).Select("id", "payload_id", "runs_at").
		Where(&models.JobTask{Status: "pending", JobType: "OneTimeJobStartDateTime"}).
		Where("runs_at BETWEEN ? AND ?", in1m, in3months).
		Order("runs_at asc").
		Limit(100).
		Find(&jobTasks).
		Error
	if err != nil {
		log.Printf("Error retrieving jobs: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d pending jobs", len(jobTasks))
	for _, jobTask := range jobTasks {
		log.Printf("Queueing: %s\n", jobTask.ID.String())
		jobDef := gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(jobTask.RunsAt))
		jt := gocron.NewTask(utils.ExpireTransaction, jobTask.PayloadID)
		job, err := sched.NewJob(
			jobDef,
			jt,
		)
		if err != nil {
			log.Printf("Failed to schedule job [%s]. Skipping: %s\n", jobTask.ID.String(), err.Error())
			continue
		}
		log.Printf("Added job to scheduler: name=%s id=%s job=%s\n", jobTask.Name, jobTask.ID.String(), job.ID().String())
	}

	return nil
}

// SweepExpiredTransactions expires every pending transaction whose payment
// window has already closed.
func SweepExpiredTransactions() {
	db := db.GetDb()
	var stale []models.Transaction
	if err := db.
		Select("id").
		Where(&models.Transaction{Status: types.TRANSACTION_PENDING}).
		Where("expires_at < ?", time.Now()).
		Find(&stale).
		Error; err != nil {
		log.Printf("Error while sweeping expired transactions: %s\n", err.Error())
		return
	}
	for _, txn := range stale {
		utils.ExpireTransaction(txn.ID.String())
	}
	if len(stale) > 0 {
		log.Printf("Swept %d expired transactions\n", len(stale))
	}
	err := db.
		Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&models.JobTask{}).
				Where("status", "pending").
				Where("runs_at < ?", time.Now().Add(-10*time.Minute)).
				Update("status", "expired").Error
			if err != nil {
				return err
			}
			return nil
		})
	if err != nil {
		log.Printf("Error while processing expired jobs: %s\n", err.Error())
	}
}
