package metrics

import "testing"

func TestNewNoopDoesNotPanic(t *testing.T) {
	c := NewNoop()
	c.RecordCall("getDeviceInfo", "ok", 0.01)
	c.RecordTimeout("armAreas")
	c.RecordPanelError("login")
	c.RecordChangeEvent("zone")
	c.RecordArmAttempt("full", "success")
	c.ConnectionsOpened.Inc()
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.RecordCall("getDeviceInfo", "ok", 0.01)
	c.RecordTimeout("armAreas")
	c.RecordPanelError("login")
	c.RecordChangeEvent("zone")
	c.RecordArmAttempt("full", "success")
}
