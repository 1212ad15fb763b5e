package featureflag

type Flag string

const (
	FlagDisableScreenTap      Flag = "DISABLE_SCREEN_TAP"
	FlagDisableLeftHand       Flag = "DISABLE_LEFT_HAND"
	FlagDisableRightHand      Flag = "DISABLE_RIGHT_HAND"
	FlagDisableSceneBroadcast Flag = "DISABLE_SCENE_BROADCAST"
	FlagDisableRemoval        Flag = "DISABLE_REMOVAL"
)
