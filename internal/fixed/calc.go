package fixed

// Calc chains arithmetic and keeps the first error. Once an operation fails
// every later operation returns Zero and Err reports the first failure.
type Calc struct {
	err error
}

func (c *Calc) Add(a, b Fixed) Fixed { return c.keep(a.Add(b)) }
func (c *Calc) Sub(a, b Fixed) Fixed { return c.keep(a.Sub(b)) }
func (c *Calc) Mul(a, b Fixed) Fixed { return c.keep(a.Mul(b)) }
func (c *Calc) Div(a, b Fixed) Fixed { return c.keep(a.Div(b)) }

func (c *Calc) keep(v Fixed, err error) Fixed {
	if c.err != nil {
		return Zero
	}
	if err != nil {
		c.err = err
		return Zero
	}
	return v
}

func (c *Calc) Err() error {
	return c.err
}
