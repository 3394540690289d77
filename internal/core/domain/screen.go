package domain

type ScreenName string

const (
	ScreenLogin          ScreenName = "login"
	ScreenRestaurantList ScreenName = "restaurant_list"
	ScreenMenu           ScreenName = "menu"
	ScreenTracking       ScreenName = "tracking"
	ScreenOrderHistory   ScreenName = "order_history"
)

// Screen is the active client screen. Each variant carries only the data
// it renders.
type Screen interface {
	Name() ScreenName
	screen()
}

type LoginScreen struct{}

type RestaurantListScreen struct {
	Restaurants []Restaurant
}

type MenuScreen struct {
	Restaurant Restaurant
	Items      []MenuItem
	Status     string
}

type TrackingScreen struct {
	OrderID  string
	Snapshot *DeliveryStatusSnapshot // nil until a status is known
	Notice   string
}

type OrderHistoryScreen struct {
	Orders []Order
}

func (LoginScreen) Name() ScreenName          { return ScreenLogin }
func (RestaurantListScreen) Name() ScreenName { return ScreenRestaurantList }
func (MenuScreen) Name() ScreenName           { return ScreenMenu }
func (TrackingScreen) Name() ScreenName       { return ScreenTracking }
func (OrderHistoryScreen) Name() ScreenName   { return ScreenOrderHistory }

func (LoginScreen) screen()          {}
func (RestaurantListScreen) screen() {}
func (MenuScreen) screen()           {}
func (TrackingScreen) screen()       {}
func (OrderHistoryScreen) screen()   {}
