package decorator

func NewThread(ID, PID string) *Thread {
	realPID := ""
	if ID != PID {
		realPID = PID
	}
	return &Thread{ID: ID, PID: realPID}
}

func CheckThread(thread *Thread, ID string) *Thread {
	if thread == nil {
		return &Thread{ID: ID}
	}
	if thread.ID == "" {
		thread.ID = ID
	}
	return thread
}

// Reply returns the thread for a reply message of the message which has the
// thread and the ID. The sender order is increased from the received one.
func Reply(thread *Thread, msgID string) *Thread {
	th := CheckThread(thread, msgID)
	return &Thread{ID: th.ID, PID: th.PID, SenderOrder: th.SenderOrder + 1}
}
