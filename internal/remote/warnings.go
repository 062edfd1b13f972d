// Package remote answers MQTT requests from other PancyStudios services.
package remote

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
)

// WarningsTopic is subscribed under pancymod/request/. The last level is the user id.
const WarningsTopic = "warnings/+"

// WarningsHandler returns the warning record of the user named by the topic
func WarningsHandler(store *database.WarningStore) mqtt.RequestHandler {
	return func(topic string, _ map[string]interface{}) (interface{}, error) {
		userID := mqtt.LastLevel(topic)
		if userID == "" || userID == "+" {
			return nil, fmt.Errorf("missing user id in %q", topic)
		}
		rec, _ := store.Get(userID)
		return rec, nil
	}
}

// Register subscribes every request handler
func Register(mc *mqtt.MqttCommunicator, store *database.WarningStore) error {
	return mc.On(WarningsTopic, WarningsHandler(store))
}
