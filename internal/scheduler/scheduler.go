package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusScheduled JobStatus = "scheduled"
)

// JobInfo contains information about a scheduled job.
type JobInfo struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Status            JobStatus  `json:"status"`
	LastRun           time.Time  `json:"lastRun"`
	NextRun           time.Time  `json:"nextRun"`
	Schedule          string     `json:"schedule"`
	Enabled           bool       `json:"enabled"`
	RunCount          int        `json:"runCount"`
	ErrorCount        int        `json:"errorCount"`
	LastError         string     `json:"lastError,omitempty"`
	Singleton         bool       `json:"singleton"`
	GocronJob         gocron.Job `json:"-"`                           // Store gocron job reference, exclude from JSON
	InstantAfterStart bool       `json:"instantAfterStart,omitempty"` // Whether to run immediately after adding
}

// JobFunc represents a function that can be scheduled.
type JobFunc func(ctx context.Context) error

// Scheduler manages scheduled jobs.
type Scheduler struct {
	mu     sync.RWMutex
	gocron gocron.Scheduler
	jobs   map[string]*JobInfo
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler.
func New() (*Scheduler, error) {
	gocronScheduler, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		gocron: gocronScheduler,
		jobs:   make(map[string]*JobInfo),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	log.Info("Starting job scheduler")
	s.gocron.Start()
	log.Info("Job scheduler started")

	var instant []string

	s.mu.Lock()
	// after starting the scheduler, populate the next run times for all jobs
	for id, jobInfo := range s.jobs {
		if jobInfo.GocronJob == nil {
			log.Warn("Gocron job reference not found for job", "id", id)
			continue
		}
		if nextRun, err := jobInfo.GocronJob.NextRun(); err == nil {
			jobInfo.NextRun = nextRun
			log.Debug("Next run time for job", "id", id, "nextRun", nextRun)
		} else {
			log.Warn("Failed to get next run time for job", "id", id, "error", err)
		}
		if jobInfo.InstantAfterStart {
			instant = append(instant, id)
		}
	}
	s.mu.Unlock()

	// Start jobs marked for immediate execution
	for _, id := range instant {
		log.Debug("Running job immediately after start", "id", id)
		if err := s.RunJobNow(id); err != nil {
			log.Error("Failed to run job immediately after start", "id", id, "error", err)
		}
	}
}

// Stop stops the scheduler and waits for running jobs to return.
func (s *Scheduler) Stop() error {
	log.Info("Stopping job scheduler")
	s.cancel()
	return s.gocron.Shutdown()
}

// AddJob adds a new job to the scheduler.
func (s *Scheduler) AddJob(
	id, name, description, definitionString string,
	jobDef gocron.JobDefinition,
	jobFunc JobFunc,
	instantAfterStart bool,
) error {
	return s.AddJobWithOptions(id, name, description, definitionString,
		jobDef,
		jobFunc,
		false, instantAfterStart,
	)
}

// AddSingletonJob adds a new singleton job to the scheduler that can only run one instance at a time.
func (s *Scheduler) AddSingletonJob(
	id, name, description, definitionString string,
	jobDef gocron.JobDefinition,
	jobFunc JobFunc,
	instantAfterStart bool,
) error {
	return s.AddJobWithOptions(id, name, description, definitionString,
		jobDef,
		jobFunc,
		true, instantAfterStart,
	)
}

// AddJobWithOptions adds a new job to the scheduler with optional singleton behavior.
func (s *Scheduler) AddJobWithOptions(
	id, name, description, definitionString string,
	jobDef gocron.JobDefinition,
	jobFunc JobFunc,
	singleton, instantAfterStart bool,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %s already exists", id)
	}

	jobInfo := &JobInfo{
		ID:                id,
		Name:              name,
		Description:       description,
		Status:            JobStatusScheduled,
		Schedule:          definitionString,
		Enabled:           true,
		Singleton:         singleton,
		InstantAfterStart: instantAfterStart,
	}

	var jobOptions []gocron.JobOption
	if singleton {
		// Use gocron's singleton mode with reschedule behavior
		jobOptions = append(jobOptions, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}

	job, err := s.gocron.NewJob(jobDef, gocron.NewTask(s.wrapJobFunc(id, jobFunc)), jobOptions...)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}
	jobInfo.GocronJob = job

	s.jobs[id] = jobInfo
	log.Info("Added job to scheduler", "id", id, "name", name, "singleton", singleton)
	return nil
}

// RunJobNow manually triggers a job to run immediately.
func (s *Scheduler) RunJobNow(id string) error {
	s.mu.RLock()
	jobInfo, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	if jobInfo.GocronJob == nil {
		return fmt.Errorf("gocron job reference not found for job %s", id)
	}

	log.Info("Manually triggering job", "id", id, "name", jobInfo.Name)

	if err := jobInfo.GocronJob.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}

	return nil
}

// GetJobs returns a snapshot of all jobs ordered by id.
func (s *Scheduler) GetJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].ID < jobs[j].ID
	})
	return jobs
}

// GetJob returns a snapshot of a specific job.
func (s *Scheduler) GetJob(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return JobInfo{}, false
	}
	return *job, true
}

// EnableJob enables a job.
func (s *Scheduler) EnableJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobInfo, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	jobInfo.Enabled = true
	if nextRun, err := jobInfo.GocronJob.NextRun(); err == nil {
		jobInfo.NextRun = nextRun
	}

	log.Info("Enabled job", "id", id, "name", jobInfo.Name)
	return nil
}

// DisableJob disables a job. Disabled jobs stay scheduled but skip their runs.
func (s *Scheduler) DisableJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobInfo, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	jobInfo.Enabled = false
	log.Info("Disabled job", "id", id, "name", jobInfo.Name)
	return nil
}

// wrapJobFunc wraps a job function to update job statistics.
func (s *Scheduler) wrapJobFunc(id string, jobFunc JobFunc) func() {
	return func() {
		s.mu.Lock()
		jobInfo := s.jobs[id]
		if jobInfo == nil {
			s.mu.Unlock()
			log.Error("Job info not found", "id", id)
			return
		}

		if !jobInfo.Enabled {
			s.mu.Unlock()
			log.Debug("Job is disabled, skipping", "id", id)
			return
		}

		jobInfo.Status = JobStatusRunning
		jobInfo.LastRun = time.Now()
		if nextRun, err := jobInfo.GocronJob.NextRun(); err == nil {
			jobInfo.NextRun = nextRun
		}
		jobInfo.RunCount++
		name := jobInfo.Name
		s.mu.Unlock()

		log.Debug("Starting job", "id", id, "name", name)
		err := jobFunc(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			log.Error("Job failed", "id", id, "name", name, "error", err)
			jobInfo.Status = JobStatusFailed
			jobInfo.ErrorCount++
			jobInfo.LastError = err.Error()
		} else {
			log.Debug("Job completed successfully", "id", id, "name", name)
			jobInfo.Status = JobStatusCompleted
			jobInfo.LastError = ""
		}
	}
}
