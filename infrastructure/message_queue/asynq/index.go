package asynq

import (
	"os"
	"time"

	"github.com/hibiken/asynq"
	"presenza.io/infrastructure/logger"
	queue_tasks "presenza.io/infrastructure/message_queue/tasks"
	mq_types "presenza.io/infrastructure/message_queue/types"
)

type AsynqBroker struct {
	Client *asynq.Client
}

func (aq *AsynqBroker) Start() {
	redisConnOpt := asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	aq.Client = asynq.NewClient(redisConnOpt)

	srv := asynq.NewServer(redisConnOpt, asynq.Config{
		Concurrency: 20,
		Queues: map[string]int{
			string(mq_types.High):   7,
			string(mq_types.Medium): 2,
			string(mq_types.Low):    1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(queue_tasks.HandleDailyAttendanceResetTaskName), queue_tasks.HandleDailyAttendanceResetTask)
	mux.HandleFunc(string(queue_tasks.HandleStaleSessionSweepTaskName), queue_tasks.HandleStaleSessionSweepTask)

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("task queue server stopped", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
	}()

	aq.startScheduler(redisConnOpt)
}

// startScheduler registers the recurring tasks: the attendance reset just
// after midnight and the stale enrollment session sweep every ten minutes.
func (aq *AsynqBroker) startScheduler(redisConnOpt asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisConnOpt, &asynq.SchedulerOpts{
		Location: time.Local,
	})

	entries := map[string]*asynq.Task{
		"5 0 * * *":    asynq.NewTask(string(queue_tasks.HandleDailyAttendanceResetTaskName), nil, asynq.Queue(string(mq_types.Low))),
		"*/10 * * * *": asynq.NewTask(string(queue_tasks.HandleStaleSessionSweepTaskName), nil, asynq.Queue(string(mq_types.Medium))),
	}
	for spec, task := range entries {
		if _, err := scheduler.Register(spec, task); err != nil {
			logger.Error("could not register scheduled task", logger.LoggerOptions{
				Key:  "task",
				Data: task.Type(),
			}, logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("task scheduler stopped", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
	}()
}

func (aq *AsynqBroker) Enqueue(task mq_types.QueueTask) {
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	aq.Client.Enqueue(asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(time.Duration(task.ProcessIn)*time.Second),
		asynq.MaxRetry(task.MaxRetry),
		asynq.Timeout(time.Second*time.Duration(task.TimeOut)),
		asynq.Queue(string(task.Priority)))
}
