package ports

// Task is a unit of work run on the event loop goroutine.
type Task func()

type TaskQueue interface {
	Enqueue(t Task) bool
	DequeueBatch(max int) []Task
	Len() int
}
