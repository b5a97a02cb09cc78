package wire

// Message ids below are single bytes except where the protocol specifies
// otherwise (batch requests use a 4-byte id; log entries use msgId 0x0D).
// Most responses echo their request's message id; log entries reply with
// 0x0D and batch responses with EE EE.
var (
	GetDeviceInfo = Template{
		Name:  "getDeviceInfo",
		MsgID: []byte{0x01},
		Body:  []byte{},
		Fields: map[string]Field{
			"model":       {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Length: 20, Type: TypeString},
			"productName": {Entries: []Entry{{Byte: 20, Mask: 0xFF}}, Length: 20, Type: TypeString},
			"firmware":    {Entries: []Entry{{Byte: 40, Mask: 0xFF}}, Length: 16, Type: TypeString},
			"serial":      {Entries: []Entry{{Byte: 56, Mask: 0xFF}}, Length: 16, Type: TypeString},
			"encryptionMode": {Entries: []Entry{{Byte: 72, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	CreateSession = Template{
		Name:  "createSession",
		MsgID: []byte{0x02},
		Body:  make([]byte, 18),
		Fields: map[string]Field{
			"clientBytes": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Length: 8},
			"panelBytes":  {Entries: []Entry{{Byte: 3, Mask: 0xFF}}, Length: 8},
		},
	}

	EnableEncryptionKey = Template{
		Name:  "enableEncryptionKey",
		MsgID: []byte{0x03},
		Body:  []byte{0x00},
	}

	// LoginPIN and LoginAccount share a message id but lay out distinct,
	// non-overlapping bodies: permissions(1)+pin(10)+method(1) for PIN
	// logins, permissions(1)+username(32)+password(32)+method(1) for
	// account logins. They used to be one template with both field sets
	// crammed into a single too-small, overlapping body; splitting them
	// keeps every offset inside its own body's bounds.
	LoginPIN = Template{
		Name:  "login",
		MsgID: []byte{0x00},
		Body:  make([]byte, 12),
		Fields: map[string]Field{
			"permissions": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
			"pin":         {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Length: 10},
			"method":      {Entries: []Entry{{Byte: 11, Mask: 0xFF}}, Type: TypeByte},
			"status":      {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	LoginAccount = Template{
		Name:  "login",
		MsgID: []byte{0x00},
		Body:  make([]byte, 66),
		Fields: map[string]Field{
			"permissions": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
			"username":    {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Length: 32},
			"password":    {Entries: []Entry{{Byte: 33, Mask: 0xFF}}, Length: 32},
			"method":      {Entries: []Entry{{Byte: 65, Mask: 0xFF}}, Type: TypeByte},
			"status":      {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	GetUserInfo = Template{
		Name:  "getUserInfo",
		MsgID: []byte{0x04},
		Body:  []byte{},
		Fields: map[string]Field{
			"userName": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Length: 32, Type: TypeString},
		},
	}

	Ping   = Template{Name: "ping", MsgID: []byte{0x06}, Body: []byte{}}
	Logout = Template{Name: "logout", MsgID: []byte{0x07}, Body: []byte{}}

	Batch = Template{
		Name:  "batch",
		MsgID: []byte{0xEE, 0xE0, 0xEE, 0xEE},
		Body:  []byte{},
	}
)

// Name-query and valid-entity typeId bytes, per entity kind.
const (
	TypeIDArea    byte = 0x02
	TypeIDZone    byte = 0x01
	TypeIDOutput  byte = 0x07
	TypeIDTrigger byte = 0x14
	TypeIDDoor    byte = 0x0B
	TypeIDFilter  byte = 0x08
)

var (
	GetNames = Template{
		Name:  "getNames",
		MsgID: []byte{0x05},
		Body:  []byte{0x00, 0x00}, // [typeId, startIndex]
		Fields: map[string]Field{
			"typeId":     {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
			"startIndex": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	GetNamesExtended = Template{
		Name:  "getNamesExtended",
		MsgID: []byte{0x15},
		Body:  []byte{0x00, 0x00},
		Fields: map[string]Field{
			"typeId":     {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
			"startIndex": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	GetValidAreas = Template{
		Name:  "getValidAreas",
		MsgID: []byte{0x08},
		Body:  []byte{},
	}

	GetZonesAssignedToAreas = Template{
		Name:  "getZonesAssignedToAreas",
		MsgID: []byte{0x09},
		Body:  []byte{0x00}, // [areaNumber]
		Fields: map[string]Field{
			"area": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
		},
	}
)

// Status-query templates. Embedded response lengths (msgId + typeId +
// payload) are fixed per kind and used by the batch splitter in batch.go.
const (
	AreaStatusLen    = 17
	ZoneStatusLen    = 7
	TriggerStatusLen = 5
	OutputStatusLen  = 5
	DoorStatusLen    = 6
	FilterStatusLen  = 5
)

var (
	AreaStatus = Template{
		Name:   "areaStatus",
		MsgID:  []byte{0x31},
		TypeID: 0x01,
		Body:   []byte{0x01, 0x00},
		Fields: map[string]Field{
			"objectId": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
			"flags":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeShort},
		},
	}

	ZoneStatus = Template{
		Name:   "zoneStatus",
		MsgID:  []byte{0x32},
		TypeID: 0x02,
		Body:   []byte{0x02, 0x00},
		Fields: map[string]Field{
			"objectId": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
			"flags":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	OutputStatus = Template{
		Name:   "outputStatus",
		MsgID:  []byte{0x33},
		TypeID: 0x03,
		Body:   []byte{0x03, 0x00},
		Fields: map[string]Field{
			"objectId": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
			"flags":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	TriggerStatus = Template{
		Name:   "triggerStatus",
		MsgID:  []byte{0x34},
		TypeID: 0x04,
		Body:   []byte{0x04, 0x00},
		Fields: map[string]Field{
			"objectId": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
			"flags":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	DoorStatus = Template{
		Name:   "doorStatus",
		MsgID:  []byte{0x35},
		TypeID: 0x05,
		Body:   []byte{0x05, 0x00},
		Fields: map[string]Field{
			"objectId": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
			"flags":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeShort},
		},
	}

	FilterStatus = Template{
		Name:   "filterStatus",
		MsgID:  []byte{0x36},
		TypeID: 0x06,
		Body:   []byte{0x06, 0x00},
		Fields: map[string]Field{
			"objectId": {Entries: []Entry{{Byte: 1, Mask: 0xFF}}, Type: TypeByte},
			"flags":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	ZonesAssignedToAreas = Template{
		Name:  "zonesAssignedToAreas",
		MsgID: []byte{0x09},
		Body:  make([]byte, 31), // typeId + 30-byte bitset
	}
)

// Change-bitmap responses: "A0 30 <typeByte> <bitmap...>" per section 4.I.
var GetChanges = Template{
	Name:  "getChanges",
	MsgID: []byte{0x30},
	Body:  []byte{0x00},
	Fields: map[string]Field{
		"typeByte": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
	},
}

// Change-of-state affected-type tags, per section 4.I.
const (
	ChangeTypeZone    byte = 0x01
	ChangeTypeArea    byte = 0x02
	ChangeTypeOutput  byte = 0x07
	ChangeTypeFilter  byte = 0x08
	ChangeTypeDoor    byte = 0x0B
	ChangeTypeTrigger byte = 0x14
	ChangeTypeAll     byte = 0xFF
)

// COSAck is the fire-and-forget acknowledgement sent after an unsolicited
// change-of-state frame: header 0xA0, msgId 0x00, body 0x01 0x01.
var COSAck = []byte{HeaderOK, 0x00, 0x01, 0x01}

// Control-session lifecycle and verb templates.
var (
	CreateArmSession = Template{
		Name:  "createArmSession",
		MsgID: []byte{0x40},
		Body:  make([]byte, 4), // area bitmap
		Fields: map[string]Field{
			"areaBitmap": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Length: 4},
		},
	}

	CreateDisarmSession = Template{
		Name:  "createDisarmSession",
		MsgID: []byte{0x41},
		Body:  make([]byte, 4),
		Fields: map[string]Field{
			"areaBitmap": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Length: 4},
		},
	}

	DestroyControlSession = Template{
		Name:  "destroyControlSession",
		MsgID: []byte{0x42},
		Body:  []byte{0x00, 0x00}, // sessionId, LE short
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
		},
	}

	ShortResponse = Template{
		Name:  "shortResponse",
		MsgID: []byte{0x43},
		Body:  []byte{0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
		},
	}

	ArmAreas = Template{
		Name:  "armAreas",
		MsgID: []byte{0x44},
		Body:  []byte{0x00, 0x00, 0x00}, // sessionId(2, LE), armType
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"armType":   {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	DisarmAreas = Template{
		Name:  "disarmAreas",
		MsgID: []byte{0x45},
		Body:  []byte{0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
		},
	}

	SetAreaForced = Template{
		Name:  "setAreaForced",
		MsgID: []byte{0x46},
		Body:  []byte{0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
		},
	}

	ControlSessionStatus = Template{
		Name:  "controlSessionStatus",
		MsgID: []byte{0x47},
		Body:  []byte{0x00, 0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			// stateId is big-endian: high byte first.
			"stateId": {Entries: []Entry{{Byte: 3, Mask: 0xFF}, {Byte: 2, Mask: 0xFF}}},
		},
	}

	BooleanResponse = Template{
		Name:  "booleanResponse",
		MsgID: []byte{0x48},
		Body:  []byte{0x00},
		Fields: map[string]Field{
			"value": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeBool},
		},
	}

	CreateControlSession = Template{
		Name:  "createControlSession",
		MsgID: []byte{0x51},
		Body:  []byte{},
	}

	InhibitZone = Template{
		Name:  "inhibitZone",
		MsgID: []byte{0x49},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"zone":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	UninhibitZone = Template{
		Name:  "uninhibitZone",
		MsgID: []byte{0x52},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"zone":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	ActivateOutput = Template{
		Name:  "activateOutput",
		MsgID: []byte{0x4A},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"output":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	DeactivateOutput = Template{
		Name:  "deactivateOutput",
		MsgID: []byte{0x53},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"output":    {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	ActivateTrigger = Template{
		Name:  "activateTrigger",
		MsgID: []byte{0x4B},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"trigger":   {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	DeactivateTrigger = Template{
		Name:  "deactivateTrigger",
		MsgID: []byte{0x54},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"trigger":   {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	LockDoor = Template{
		Name:  "lockDoor",
		MsgID: []byte{0x4C},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"door":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	UnlockDoorStandard = Template{
		Name:  "unlockDoorStandard",
		MsgID: []byte{0x55},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"door":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	UnlockDoorTime = Template{
		Name:  "unlockDoorTime",
		MsgID: []byte{0x4D},
		Body:  []byte{0x00, 0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"door":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
			"seconds":   {Entries: []Entry{{Byte: 3, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	DisableDoor = Template{
		Name:  "disableDoor",
		MsgID: []byte{0x56},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"door":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	EnableDoor = Template{
		Name:  "enableDoor",
		MsgID: []byte{0x57},
		Body:  []byte{0x00, 0x00, 0x00},
		Fields: map[string]Field{
			"sessionId": {Entries: []Entry{{Byte: 0, Mask: 0xFF}, {Byte: 1, Mask: 0xFF}}},
			"door":      {Entries: []Entry{{Byte: 2, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	GetFaultZones   = namedNextQuery("getFaultZones", 0x4E)
	GetActiveZones  = namedNextQuery("getActiveZones", 0x4F)
	GetInhibitedZones = namedNextQuery("getInhibitedZones", 0x50)
)

func namedNextQuery(name string, msgID byte) Template {
	return Template{
		Name:  name,
		MsgID: []byte{msgID},
		Body:  []byte{0x00}, // next flag: 0 first, 1 subsequent
		Fields: map[string]Field{
			"next": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
			"zone": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
		},
	}
}

// Event-log templates.
var (
	StartMonitor = Template{Name: "startMonitor", MsgID: []byte{0x60}, Body: []byte{}}
	OpenLog      = Template{Name: "openLog", MsgID: []byte{0x61}, Body: []byte{}}

	SelectLogEntry = Template{
		Name:  "selectLogEntry",
		MsgID: []byte{0x62},
		Body:  []byte{0x00},
		Fields: map[string]Field{
			"direction": {Entries: []Entry{{Byte: 0, Mask: 0xFF}}, Type: TypeByte},
		},
	}

	LogEntry = Template{
		Name:   "logEntry",
		MsgID:  []byte{0x0D},
		TypeID: 0x00,
		Body:   make([]byte, 70), // up to 70-byte record, typeId byte first
	}
)

const (
	LogDirectionFirst byte = 0x00
	LogDirectionNext  byte = 0x03
)
