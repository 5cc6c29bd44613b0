package resolve

import (
	"context"
	stderrors "errors"

	"github.com/rileyhilliard/hop/internal/inventory"
	"github.com/rileyhilliard/hop/internal/picker"
	"github.com/rileyhilliard/hop/internal/util"
)

// taskIDWidth is how much of a task ID the menu shows. The full ARN stays
// on the row as the hidden join key.
const taskIDWidth = 12

// timestampLayout formats task start/stop times for display.
const timestampLayout = "2006-01-02 15:04:05"

// Cluster resolves one ECS cluster.
func (s *Session) Cluster(ctx context.Context) (*inventory.Cluster, bool, error) {
	var clusters []inventory.Cluster
	err := s.spin("Listing clusters", func() error {
		var listErr error
		clusters, listErr = inventory.ListClusters(ctx, s.ECS)
		return listErr
	})
	if err != nil {
		return nil, false, err
	}

	byARN := make(map[string]inventory.Cluster, len(clusters))
	rows := make([]picker.Row, len(clusters))
	for i, c := range clusters {
		byARN[c.ARN] = c
		rows[i] = picker.Row{Key: c.ARN, Columns: []string{c.Name}}
	}

	row, ok, err := s.pick(rows, picker.Options{Prompt: PromptCluster})
	if err != nil || !ok {
		return nil, false, err
	}

	c := byARN[row.Key]
	return &c, true, nil
}

// Service resolves one service within the cluster.
func (s *Session) Service(ctx context.Context, cluster *inventory.Cluster) (*inventory.Service, bool, error) {
	var services []inventory.Service
	err := s.spin("Listing services in "+cluster.Name, func() error {
		var listErr error
		services, listErr = inventory.ListServices(ctx, s.ECS, cluster.ARN)
		return listErr
	})
	if err != nil {
		return nil, false, err
	}

	byARN := make(map[string]inventory.Service, len(services))
	rows := make([]picker.Row, len(services))
	for i, svc := range services {
		byARN[svc.ARN] = svc
		rows[i] = picker.Row{Key: svc.ARN, Columns: []string{svc.Name}}
	}

	row, ok, err := s.pick(rows, picker.Options{Prompt: PromptService})
	if err != nil || !ok {
		return nil, false, err
	}

	svc := byARN[row.Key]
	return &svc, true, nil
}

// Task resolves one task from the service's merged RUNNING and STOPPED
// lists, newest first. The visible columns are status, timestamp, and a
// shortened ID; the full ARN rides along as the hidden key.
func (s *Session) Task(ctx context.Context, cluster *inventory.Cluster, service *inventory.Service) (*inventory.Task, bool, error) {
	var tasks []inventory.Task
	err := s.spin("Listing tasks for "+service.Name, func() error {
		var listErr error
		tasks, listErr = inventory.ListTasks(ctx, s.ECS, cluster.ARN, service.Name)
		return listErr
	})
	if err != nil {
		return nil, false, err
	}

	byARN := make(map[string]inventory.Task, len(tasks))
	rows := make([]picker.Row, len(tasks))
	for i, task := range tasks {
		byARN[task.ARN] = task

		ts := "-"
		if !task.Timestamp.IsZero() {
			ts = task.Timestamp.Format(timestampLayout)
		}
		rows[i] = picker.Row{
			Key:     task.ARN,
			Columns: []string{task.Status, ts, util.ShortID(task.ID, taskIDWidth)},
		}
	}

	row, ok, err := s.pick(rows, picker.Options{
		Prompt: PromptTask,
		Header: "status / time / task",
	})
	if err != nil || !ok {
		return nil, false, err
	}

	task := byARN[row.Key]
	return &task, true, nil
}

// ECSTarget runs the whole orchestrated pipeline: cluster, service, task,
// then the four-hop join down to the hosting instance and its login
// account. A hop that comes back empty ends the pipeline quietly.
func (s *Session) ECSTarget(ctx context.Context) (*Target, bool, error) {
	cluster, ok, err := s.Cluster(ctx)
	if err != nil || !ok {
		return nil, false, err
	}

	service, ok, err := s.Service(ctx, cluster)
	if err != nil || !ok {
		return nil, false, err
	}

	task, ok, err := s.Task(ctx, cluster, service)
	if err != nil || !ok {
		return nil, false, err
	}

	var host *inventory.TaskHost
	err = s.spin("Resolving host for task "+util.ShortID(task.ID, taskIDWidth), func() error {
		var resolveErr error
		host, resolveErr = inventory.ResolveTaskHost(ctx, s.ECS, s.EC2, cluster.ARN, *task)
		return resolveErr
	})
	if err != nil {
		if stderrors.Is(err, inventory.ErrNotFound) {
			s.log().Debug("task %s has no resolvable host, ending pipeline", task.ID)
			return nil, false, nil
		}
		return nil, false, err
	}

	s.log().Debug("resolved task %s to %s as %s", task.ID, host.Instance.PrivateIP, host.LoginUser)
	return &Target{
		Address:    host.Instance.PrivateIP,
		User:       host.LoginUser,
		InstanceID: host.Instance.ID,
	}, true, nil
}
