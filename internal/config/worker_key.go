package config

type WorkerKeyStruct struct {
	ApprovalEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ApprovalEventsQueue: "approval_events_queue",
}
