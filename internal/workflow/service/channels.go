package service

import "campaign_bridge_backend/platform/apperr"

// Channel ids as assigned by the messaging brokers.
const (
	ChannelWhatsApp  = 1
	ChannelMessenger = 2
	ChannelInstagram = 3
	ChannelTelegram  = 4
	ChannelEmail     = 5
	ChannelSMS       = 6
	ChannelWebchat   = 7
)

var channelNames = map[int]string{
	ChannelWhatsApp:  "whatsapp",
	ChannelMessenger: "messenger",
	ChannelInstagram: "instagram",
	ChannelTelegram:  "telegram",
	ChannelEmail:     "email",
	ChannelSMS:       "sms",
	ChannelWebchat:   "webchat",
}

// ChannelName maps a numeric channel id to its name. Unknown ids are a hard
// failure; an empty channel name must never reach the ticketing service.
func ChannelName(id int) (string, error) {
	name, ok := channelNames[id]
	if !ok {
		return "", apperr.Precondition("unknown message channel").WithOp("workflow.ChannelName").WithDetails(map[string]int{"id_channel": id})
	}
	return name, nil
}
