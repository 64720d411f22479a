package scheduler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"townManagerBot/models"
	"townManagerBot/scheduler/scheduler_jobs"
)

func SetupCron(s *discordgo.Session, db *gorm.DB) {
	cronService := cron.New(cron.WithSeconds())

	_, err := cronService.AddFunc("0 0 9 * * *", func() {
		// At 9am every day
		err := scheduler_jobs.PostVoteDigest(s, db)
		if err != nil {
			fmt.Println(err)
		}
	})

	if err != nil {
		errLog := models.ErrorLog{
			GuildID: "CRON ERR",
			Message: fmt.Sprintf("%v", err),
		}
		db.Create(&errLog)
	}

	cronService.Start()
}
