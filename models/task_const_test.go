package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskStatusTransitions(t *testing.T) {
	t.Run(`допустимые переходы`, func(t *testing.T) {
		require.True(t, TaskStatusNotStarted.CanTransitTo(TaskStatusInProgress))
		require.True(t, TaskStatusNotStarted.CanTransitTo(TaskStatusCompleted))
		require.True(t, TaskStatusInProgress.CanTransitTo(TaskStatusPaused))
		require.True(t, TaskStatusInProgress.CanTransitTo(TaskStatusCompleted))
		require.True(t, TaskStatusPaused.CanTransitTo(TaskStatusInProgress))
		require.True(t, TaskStatusPaused.CanTransitTo(TaskStatusCompleted))
	})

	t.Run(`недопустимые переходы`, func(t *testing.T) {
		require.False(t, TaskStatusNotStarted.CanTransitTo(TaskStatusPaused))
		require.False(t, TaskStatusInProgress.CanTransitTo(TaskStatusNotStarted))
		require.False(t, TaskStatusPaused.CanTransitTo(TaskStatusNotStarted))
		require.False(t, TaskStatusCompleted.CanTransitTo(TaskStatusInProgress))
		require.False(t, TaskStatusCompleted.CanTransitTo(TaskStatusPaused))
	})

	t.Run(`финальный статус`, func(t *testing.T) {
		require.True(t, TaskStatusCompleted.IsFinal())
		require.False(t, TaskStatusNotStarted.IsFinal())
		require.False(t, TaskStatusInProgress.IsFinal())
		require.False(t, TaskStatusPaused.IsFinal())
	})
}

func TestReportKind(t *testing.T) {
	require.True(t, ReportKindGeneral.IsValid())
	require.True(t, ReportKindByCompany.IsValid())
	require.True(t, ReportKindByUser.IsValid())
	require.True(t, ReportKindTime.IsValid())
	require.True(t, ReportKindCost.IsValid())
	require.False(t, ReportKind("weekly").IsValid())
}
